package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexKeys(model mongo.IndexModel) []string {
	keys, ok := model.Keys.(bson.D)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Key)
	}
	return names
}

func TestCollectionIndexes_CoverUniquenessRules(t *testing.T) {
	required := map[string][]string{
		userCollectionName:             {"email"},
		productCollectionName:          {"code"},
		categoryCollectionName:         {"slug"},
		categoryRelationCollectionName: {"parent_id", "child_id"},
		refreshTokenCollectionName:     {"token"},
	}

	declared := collectionIndexes()
	for collectionName, wantKeys := range required {
		models, ok := declared[collectionName]
		assert.True(t, ok, "no indexes declared for %s", collectionName)

		found := false
		for _, model := range models {
			if !assert.ObjectsAreEqual(wantKeys, indexKeys(model)) {
				continue
			}
			found = true
			assert.NotNil(t, model.Options, "%s index has no options", collectionName)
			assert.NotNil(t, model.Options.Unique, "%s index is not marked unique", collectionName)
			assert.True(t, *model.Options.Unique, "%s index is not unique", collectionName)
		}
		assert.True(t, found, "no index on %v for %s", wantKeys, collectionName)
	}
}
