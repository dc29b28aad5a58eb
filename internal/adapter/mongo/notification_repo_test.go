package mongo

import (
	"testing"
	"time"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNotificationModel_AdminOwnerSurvivesMarshalling(t *testing.T) {
	model := notificationModel{
		UserID:    "",
		Type:      "order_created",
		Title:     "New order",
		Body:      "Order o1 needs review",
		CreatedAt: time.Now().UTC(),
	}

	raw, err := bson.Marshal(model)
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))

	// The empty owner marks the admin inbox; the stored document must keep
	// the field so the owner filter can match it.
	stored, ok := doc["user_id"]
	assert.True(t, ok, "user_id missing from stored document")
	assert.Equal(t, "", stored)
	assert.Equal(t, doc["user_id"], ownerFilter(repository.ListNotificationsParams{AdminInbox: true})["user_id"])
}

func TestOwnerFilter(t *testing.T) {
	assert.Equal(t, bson.M{"user_id": ""}, ownerFilter(repository.ListNotificationsParams{AdminInbox: true}))
	assert.Equal(t, bson.M{"user_id": "u1"}, ownerFilter(repository.ListNotificationsParams{UserID: "u1"}))
}
