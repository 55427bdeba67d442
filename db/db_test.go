package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationrental/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test_rentals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProperty() models.Property {
	return models.Property{
		Title:        "Seaside cottage",
		Description:  "Two minutes from the beach",
		Location:     "Brighton",
		Price:        120.5,
		PropertyType: "Cottage",
		Accommodates: 4,
		Bedrooms:     2,
		Bathrooms:    1.5,
		Amenities:    "wifi, parking",
	}
}

func TestOpenCreatesTables(t *testing.T) {
	s := openTestStore(t)

	var count int
	require.NoError(t, s.db.Get(&count, "SELECT COUNT(*) FROM properties"))
	require.NoError(t, s.db.Get(&count, "SELECT COUNT(*) FROM clients"))
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.InsertProperty(ctx, sampleProperty())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.EnsureSchema(ctx))
	}

	all, err := s.GetAllProperties(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInsertAndGetProperty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := sampleProperty()
	id, err := s.InsertProperty(ctx, want)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := s.GetPropertyByID(ctx, id)
	require.NoError(t, err)

	want.ID = id
	assert.Equal(t, want, got)
}

func TestGetPropertyByIDMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetPropertyByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllPropertiesEmpty(t *testing.T) {
	s := openTestStore(t)

	all, err := s.GetAllProperties(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGetAllPropertiesOrdered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		p := sampleProperty()
		p.Title = title
		_, err := s.InsertProperty(ctx, p)
		require.NoError(t, err)
	}

	all, err := s.GetAllProperties(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Title)
	assert.Equal(t, "c", all[2].Title)
}

func TestCreateClientDuplicate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateClient(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = s.CreateClient(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrDuplicate)

	// usernames are case-sensitive
	_, err = s.CreateClient(ctx, "Alice", "pw1")
	assert.NoError(t, err)
}

func TestVerifyClient(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateClient(ctx, "bob", "secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"exact match", "bob", "secret", true},
		{"wrong password", "bob", "Secret", false},
		{"wrong username case", "Bob", "secret", false},
		{"unknown user", "carol", "secret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.VerifyClient(ctx, tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestClientExists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	exists, err := s.ClientExists(ctx, "dave")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.CreateClient(ctx, "dave", "pw")
	require.NoError(t, err)

	exists, err = s.ClientExists(ctx, "dave")
	require.NoError(t, err)
	assert.True(t, exists)
}
