package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationService stores in-app notifications for users. Delivery is
// pull-based: clients poll their notification list.
type NotificationService struct {
	notificationCollection *mongo.Collection
}

// Notification is a stored in-app notification.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Title     string              `bson:"title" json:"title"`
	Body      string              `bson:"body" json:"body"`
	Type      string              `bson:"type" json:"type"`
	RelatedID *primitive.ObjectID `bson:"related_id,omitempty" json:"related_id,omitempty"`
	IsRead    bool                `bson:"is_read" json:"is_read"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	ReadAt    *time.Time          `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

const (
	NotificationTypeParticipation = "participation"
	NotificationTypeSystem        = "system"
)

func NewNotificationService(notificationCollection *mongo.Collection) *NotificationService {
	return &NotificationService{
		notificationCollection: notificationCollection,
	}
}

// NotifyUser stores a notification for one user.
func (ns *NotificationService) NotifyUser(ctx context.Context, userID primitive.ObjectID, title, body, notificationType string, relatedID *primitive.ObjectID) error {
	notification := Notification{
		UserID:    userID,
		Title:     title,
		Body:      body,
		Type:      notificationType,
		RelatedID: relatedID,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := ns.notificationCollection.InsertOne(ctx, notification)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID.Hex()).Error("error storing notification")
		return err
	}
	return nil
}

// ListForUser returns the user's notifications, newest first.
func (ns *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := ns.notificationCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread returns how many unread notifications the user has.
func (ns *NotificationService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return ns.notificationCollection.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"is_read": false,
	})
}

// MarkRead marks one of the user's notifications as read. Marking an
// already-read notification succeeds without changes.
func (ns *NotificationService) MarkRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	now := time.Now()
	result, err := ns.notificationCollection.UpdateOne(ctx, bson.M{
		"_id":     notificationID,
		"user_id": userID,
	}, bson.M{
		"$set": bson.M{
			"is_read": true,
			"read_at": now,
		},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
