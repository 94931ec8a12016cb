package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReceiptRoundTrip(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := CreateReceipt(ctx, db, "u1", "sub-1", "biz-1", 201, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == "" || !rec.ExpiresAt.After(now) {
		t.Fatalf("receipt = %+v", rec)
	}

	got, err := GetReceipt(ctx, db, "u1", "sub-1", now)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BusinessID != "biz-1" || got.Status != 201 {
		t.Fatalf("row = %+v", got)
	}

	// The key is scoped to the owner.
	if _, err := GetReceipt(ctx, db, "u2", "sub-1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other owner: err = %v", err)
	}
	if _, err := GetReceipt(ctx, db, "u1", "   ", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank key: err = %v", err)
	}
}

func TestCreateReceipt_DuplicateKey(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := CreateReceipt(ctx, db, "u1", "sub-1", "biz-1", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := CreateReceipt(ctx, db, "u1", "sub-1", "biz-2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	// A different owner may reuse the key.
	if _, err := CreateReceipt(ctx, db, "u2", "sub-1", "biz-3", 201, time.Hour); err != nil {
		t.Fatalf("other owner: %v", err)
	}
}

func TestGetReceipt_Expired(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := CreateReceipt(ctx, db, "u1", "sub-1", "biz-1", 201, -time.Minute); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := GetReceipt(ctx, db, "u1", "sub-1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired receipt: err = %v", err)
	}
}
