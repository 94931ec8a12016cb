package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/localspot/go-directory-backend/internal/config"
)

func preserveOTelGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func enabledCfg(name string) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: name,
		SampleRatio: 1.0,
	}
}

func TestSetupOTel_DisabledIsNoOp(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "dev")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
}

func TestSetupOTel_InstallsProviderAndPropagator(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), enabledCfg("directory-insecure"), "v1.2.3")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("tracer provider = %T", otel.GetTracerProvider())
	}

	// The composite propagator round-trips trace context.
	carrier := propagation.MapCarrier{}
	ctx, span := otel.Tracer("test").Start(context.Background(), "span")
	span.End()
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		t.Fatal("nothing injected into the carrier")
	}
}

func TestSetupOTel_TLSBranch(t *testing.T) {
	preserveOTelGlobals(t)

	cfg := enabledCfg("directory-tls")
	cfg.Insecure = false
	shutdown, err := SetupOTel(context.Background(), cfg, "v1")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("tracer provider = %T", otel.GetTracerProvider())
	}
}

func TestSetupOTel_ExporterErrorLeavesGlobalsAlone(t *testing.T) {
	preserveOTelGlobals(t)

	orig := newOTLPExporterFn
	defer func() { newOTLPExporterFn = orig }()
	newOTLPExporterFn = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("exporter down")
	}

	prevTP := otel.GetTracerProvider()
	if _, err := SetupOTel(context.Background(), enabledCfg("directory-fail"), "v0"); err == nil {
		t.Fatal("expected an error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatal("tracer provider replaced despite setup failure")
	}
}

func TestSetupOTel_ResourceErrorLeavesGlobalsAlone(t *testing.T) {
	preserveOTelGlobals(t)

	orig := newServiceResourceFn
	defer func() { newServiceResourceFn = orig }()
	newServiceResourceFn = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, errors.New("resource boom")
	}

	prevProp := otel.GetTextMapPropagator()
	if _, err := SetupOTel(context.Background(), enabledCfg("directory-fail"), "v0"); err == nil {
		t.Fatal("expected an error")
	}
	if otel.GetTextMapPropagator() != prevProp {
		t.Fatal("propagator replaced despite setup failure")
	}
}

func TestSetupOTel_ShutdownWithinDeadline(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), enabledCfg("directory-shutdown"), "v1")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
