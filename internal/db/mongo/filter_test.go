package mongo

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/nlquery/internal/db"
	"github.com/kailas-cloud/nlquery/internal/domain/predicate"
)

func TestRenderFilter_Empty(t *testing.T) {
	got, err := RenderFilter(predicate.And{})
	require.NoError(t, err)
	assert.Equal(t, bson.D{}, got)
}

func TestRenderFilter_SingleChildUnwrapped(t *testing.T) {
	got, err := RenderFilter(predicate.And{Children: []predicate.Node{
		predicate.Compare{Path: "cgpa", Op: predicate.Gte, Value: 8.5},
	}})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "cgpa", Value: bson.D{{Key: "$gte", Value: 8.5}}}}, got)
}

func TestRenderFilter_Conjunction(t *testing.T) {
	got, err := RenderFilter(predicate.And{Children: []predicate.Node{
		predicate.Compare{Path: "github_analysis.github_score", Op: predicate.Gt, Value: float64(60)},
		predicate.Compare{Path: "name", Op: predicate.Eq, Value: "Asha"},
		predicate.In{Path: "prs_score", Values: []any{float64(1), float64(2)}},
	}})
	require.NoError(t, err)

	want := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "github_analysis.github_score", Value: bson.D{{Key: "$gt", Value: float64(60)}}}},
		bson.D{{Key: "name", Value: bson.D{{Key: "$eq", Value: "Asha"}}}},
		bson.D{{Key: "prs_score", Value: bson.D{{Key: "$in", Value: bson.A{float64(1), float64(2)}}}}},
	}}}
	assert.Equal(t, want, got)
}

func TestRenderFilter_MatchAnyText(t *testing.T) {
	got, err := RenderFilter(predicate.And{Children: []predicate.Node{
		predicate.MatchAny{Path: "branch", Canonical: "ECS", Spellings: []string{"ECS", "E&CS"}},
	}})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "branch", got[0].Key)
	re, ok := got[0].Value.(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "i", re.Options)
	assert.Equal(t, `^\s*(?:ECS|E&CS)\s*$`, re.Pattern)
}

func TestRenderFilter_MatchAnyNumericSpellings(t *testing.T) {
	got, err := RenderFilter(predicate.And{Children: []predicate.Node{
		predicate.MatchAny{Path: "year", Canonical: "TY", Spellings: []string{"TY", "3", "Third Year"}},
	}})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "$or", got[0].Key)
	branches, ok := got[0].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, branches, 2)
	assert.Equal(t, bson.D{{Key: "year", Value: bson.D{{Key: "$in", Value: bson.A{float64(3)}}}}}, branches[1])
}

func TestRenderFilter_Disjunction(t *testing.T) {
	got, err := RenderFilter(predicate.And{Children: []predicate.Node{
		predicate.Or{Children: []predicate.Node{
			predicate.MatchAny{Path: "branch", Canonical: "IT", Spellings: []string{"IT"}},
			predicate.MatchAny{Path: "branch", Canonical: "CSE", Spellings: []string{"CSE"}},
		}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "$or", got[0].Key)
	assert.Len(t, got[0].Value, 2)
}

func TestRenderFilter_Errors(t *testing.T) {
	cases := map[string]predicate.Node{
		"empty or":         predicate.Or{},
		"empty in":         predicate.In{Path: "cgpa"},
		"empty variants":   predicate.MatchAny{Path: "year"},
		"ordering on text": predicate.Compare{Path: "name", Op: predicate.Gt, Value: "A"},
		"unknown operator": predicate.Compare{Path: "cgpa", Op: predicate.Op("ne"), Value: 1.0},
	}
	for name, n := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := RenderFilter(predicate.And{Children: []predicate.Node{n, n}})
			assert.ErrorIs(t, err, db.ErrInvalidQuery)
		})
	}
}

func TestVariantPattern(t *testing.T) {
	p := VariantPattern([]string{"Third Year", "T.E.", "3rd"})
	re := regexp.MustCompile("(?i)" + p)

	for _, s := range []string{"third year", "THIRD   YEAR", " t.e. ", "3rd"} {
		assert.True(t, re.MatchString(s), s)
	}
	for _, s := range []string{"third", "TxE.", "3rd year", "second year"} {
		assert.False(t, re.MatchString(s), s)
	}
}

func TestProjection(t *testing.T) {
	assert.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "scores", Value: 1},
		{Key: "_id", Value: 0},
	}, projection([]string{"name", "scores"}))

	assert.Equal(t, bson.D{
		{Key: "_id", Value: 1},
		{Key: "name", Value: 1},
	}, projection([]string{"_id", "name"}))
}

func TestToDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := toDocument(bson.M{
		"_id":             oid,
		"name":            "Asha",
		"github_analysis": bson.M{"github_score": 72.0},
		"scores":          bson.D{{Key: "coding", Value: 81.0}},
		"tags":            bson.A{"a", bson.M{"b": 1.0}},
	})

	assert.Equal(t, db.Document{
		"_id":             oid.Hex(),
		"name":            "Asha",
		"github_analysis": map[string]any{"github_score": 72.0},
		"scores":          map[string]any{"coding": 81.0},
		"tags":            []any{"a", map[string]any{"b": 1.0}},
	}, doc)
}
