package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulerankit14/buy-instagram-followers/internal/username"
)

func TestDraftNormalize(t *testing.T) {
	cases := []struct {
		name    string
		in      Draft
		want    Draft
		wantErr error
	}{
		{
			name: "valid",
			in:   Draft{Username: "@jane_doe", Phone: "+91 9876543210"},
			want: Draft{Username: "jane_doe", Phone: "+919876543210"},
		},
		{
			name: "plain digits",
			in:   Draft{Username: "jane", Phone: "98765432"},
			want: Draft{Username: "jane", Phone: "98765432"},
		},
		{
			name:    "bad username",
			in:      Draft{Username: "jane doe!", Phone: "9876543210"},
			wantErr: username.ErrBadChars,
		},
		{
			name:    "phone too short",
			in:      Draft{Username: "jane", Phone: "12345"},
			wantErr: ErrPhoneTooShort,
		},
		{
			name:    "phone too long",
			in:      Draft{Username: "jane", Phone: "+1234567890123456"},
			wantErr: ErrPhoneTooLong,
		},
		{
			name:    "phone letters",
			in:      Draft{Username: "jane", Phone: "98765abc21"},
			wantErr: ErrPhoneBadChars,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.Normalize()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPlanByID(t *testing.T) {
	p, err := PlanByID("followers-2500")
	require.NoError(t, err)
	assert.Equal(t, ServiceFollowers, p.Service)
	assert.Equal(t, 199, p.AmountINR)

	_, err = PlanByID("nope")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestMemoryStoreSlots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.LoadDraft(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)

	draft := Draft{Username: "jane", Phone: "9876543210"}
	require.NoError(t, store.SaveDraft(ctx, "k1", draft))

	got, err := store.LoadDraft(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, draft, got)

	// Slots are isolated per client key.
	_, err = store.LoadDraft(ctx, "k2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.ClearDraft(ctx, "k1"))
	_, err = store.LoadDraft(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)

	plan, err := PlanByID("followers-1000")
	require.NoError(t, err)
	ord := Order{Draft: draft, Plan: plan, Status: StatusPending}
	require.NoError(t, store.SaveOrder(ctx, "k1", ord))

	gotOrder, err := store.LoadOrder(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, ord, gotOrder)
}
