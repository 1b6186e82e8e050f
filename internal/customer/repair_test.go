package customer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emporium-commerce/emporium/internal/customer"
)

func notesWith(s string) *string { return &s }

func TestRepairPasswordHashes(t *testing.T) {
	t.Parallel()

	legacy := *hashOf(t, "old-password")
	withHash := customer.Customer{ID: uuid.New(), Notes: notesWith("imported 2024\nlegacy_password_hash:" + legacy)}
	noNotes := customer.Customer{ID: uuid.New()}
	badHash := customer.Customer{ID: uuid.New(), Notes: notesWith("legacy_password_hash:not-a-bcrypt-hash")}

	written := map[uuid.UUID]string{}
	repo := &mockCustomerRepo{
		listNoHashFn: func(_ context.Context) ([]customer.Customer, error) {
			return []customer.Customer{withHash, noNotes, badHash}, nil
		},
		setHashFn: func(_ context.Context, id uuid.UUID, hash string) (bool, error) {
			written[id] = hash
			return true, nil
		},
	}

	report, err := customer.RepairPasswordHashes(context.Background(), repo, false)

	require.NoError(t, err)
	assert.Equal(t, customer.RepairReport{Scanned: 3, Repaired: 1, Skipped: 2}, report)
	assert.Equal(t, map[uuid.UUID]string{withHash.ID: legacy}, written)
}

func TestRepairPasswordHashes_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	legacy := *hashOf(t, "old-password")
	repo := &mockCustomerRepo{
		listNoHashFn: func(_ context.Context) ([]customer.Customer, error) {
			return []customer.Customer{{ID: uuid.New(), Notes: notesWith("legacy_password_hash:" + legacy)}}, nil
		},
		setHashFn: func(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
			t.Fatal("dry run must not write")
			return false, nil
		},
	}

	report, err := customer.RepairPasswordHashes(context.Background(), repo, true)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Repaired)
}

func TestRepairPasswordHashes_ConcurrentRepairIsSkipped(t *testing.T) {
	t.Parallel()

	legacy := *hashOf(t, "old-password")
	repo := &mockCustomerRepo{
		listNoHashFn: func(_ context.Context) ([]customer.Customer, error) {
			return []customer.Customer{{ID: uuid.New(), Notes: notesWith("legacy_password_hash:" + legacy)}}, nil
		},
		setHashFn: func(_ context.Context, _ uuid.UUID, _ string) (bool, error) { return false, nil },
	}

	report, err := customer.RepairPasswordHashes(context.Background(), repo, false)

	require.NoError(t, err)
	assert.Equal(t, customer.RepairReport{Scanned: 1, Skipped: 1}, report)
}

func TestRepairPasswordHashes_ListFailure(t *testing.T) {
	t.Parallel()

	repo := &mockCustomerRepo{
		listNoHashFn: func(_ context.Context) ([]customer.Customer, error) { return nil, errors.New("boom") },
	}

	_, err := customer.RepairPasswordHashes(context.Background(), repo, false)

	assert.Error(t, err)
}
