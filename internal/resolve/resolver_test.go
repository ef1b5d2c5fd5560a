package resolve

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepaldata/projectgraph/internal/entitystore"
	"github.com/nepaldata/projectgraph/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bagmati Province", "bagmati"},
		{"  Kathmandu District  ", "kathmandu"},
		{"Kathmandu Metropolitan City", "kathmandu"},
		{"Madhesh Pradesh", "madhesh"},
		{"Pokhara, Kaski", "pokhara kaski"},
		{"लुम्बिनी प्रदेश", "लुम्बिनी"},
		{"", ""},
		{"kathmandu", "kathmandu"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeNameStripsOnlyOneSuffix(t *testing.T) {
	// A place literally named after an administrative term keeps its stem
	// after one pass.
	got := NormalizeName("Province Province")
	assert.Equal(t, "province", got)
}

func TestNormalizeNameIdempotent(t *testing.T) {
	for _, name := range []string{"Bagmati Province", "Kathmandu Metropolitan City", "Sankhuwasava District"} {
		once := NormalizeName(name)
		assert.Equal(t, once, NormalizeName(once), "normalizing %q twice", name)
	}
}

func TestCanonicalKeyAppliesAliases(t *testing.T) {
	assert.Equal(t, "sankhuwasabha", CanonicalKey("Sankhuwasava District"))
	assert.Equal(t, "sankhuwasabha", CanonicalKey("Sankhuwasabha District"))
	assert.Equal(t, "western rukum", CanonicalKey("Rukum District"))
	assert.Equal(t, "kathmandu", CanonicalKey("Kathmandu District"))
}

func seedLocations(t *testing.T) *Index {
	t.Helper()
	store := entitystore.NewMemoryStore()
	store.Seed(models.Entity{
		Slug: "bagmati", Type: models.EntityTypeLocation, SubType: models.SubTypeProvince,
		Names: []models.Name{{Kind: "primary", EN: "Bagmati", NE: "बागमती"}},
	})
	store.Seed(models.Entity{
		Slug: "kathmandu-district", Type: models.EntityTypeLocation, SubType: models.SubTypeDistrict,
		Names: []models.Name{{Kind: "primary", EN: "Kathmandu", NE: "काठमाडौँ"}},
	})
	store.Seed(models.Entity{
		Slug: "sankhuwasabha", Type: models.EntityTypeLocation, SubType: models.SubTypeDistrict,
		Names: []models.Name{{Kind: "primary", EN: "Sankhuwasabha"}},
	})
	store.Seed(models.Entity{
		Slug: "pokhara", Type: models.EntityTypeLocation, SubType: models.SubTypeMetropolitanCity,
		Names: []models.Name{{Kind: "primary", EN: "Pokhara Metropolitan City"}},
	})

	ix, err := BuildIndex(context.Background(), store, discardLogger())
	require.NoError(t, err)
	return ix
}

func TestLookupBySubType(t *testing.T) {
	ix := seedLocations(t)

	province := ix.Lookup("Bagmati Province", KindProvince)
	require.NotNil(t, province)
	assert.Equal(t, "bagmati", province.Slug)

	district := ix.Lookup("Kathmandu District", KindDistrict)
	require.NotNil(t, district)
	assert.Equal(t, "kathmandu-district", district.Slug)

	// Nepali name variant resolves too.
	ne := ix.Lookup("बागमती", KindProvince)
	require.NotNil(t, ne)
	assert.Equal(t, "bagmati", ne.Slug)
}

func TestLookupAliasCorrection(t *testing.T) {
	ix := seedLocations(t)

	e := ix.Lookup("Sankhuwasava District", KindDistrict)
	require.NotNil(t, e)
	assert.Equal(t, "sankhuwasabha", e.Slug)
}

func TestLookupFallsBackToOppositeBucket(t *testing.T) {
	ix := seedLocations(t)

	// Pokhara is a metropolitan city, but feeds often report it as a
	// district.
	e := ix.Lookup("Pokhara", KindDistrict)
	require.NotNil(t, e)
	assert.Equal(t, "pokhara", e.Slug)

	// Provinces never fall back across buckets.
	assert.Nil(t, ix.Lookup("Pokhara", KindProvince))
}

func TestLookupMiss(t *testing.T) {
	ix := seedLocations(t)
	assert.Nil(t, ix.Lookup("Atlantis", KindAny))
}

func TestResolverLenient(t *testing.T) {
	ix := seedLocations(t)
	r := NewResolver(ix, PolicyLenient, discardLogger())

	e, err := r.Resolve("Nowhere District", KindDistrict)
	require.NoError(t, err)
	assert.Nil(t, e)

	e, err = r.Resolve("", KindDistrict)
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestResolverStrict(t *testing.T) {
	ix := seedLocations(t)
	r := NewResolver(ix, PolicyStrict, discardLogger())

	_, err := r.Resolve("Nowhere District", KindDistrict)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), "Nowhere District")

	e, err := r.Resolve("Kathmandu", KindDistrict)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "kathmandu-district", e.Slug)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyLenient, p)

	p, err = ParsePolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("yolo")
	assert.Error(t, err)
}
