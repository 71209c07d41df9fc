package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a local database with one organization, two volunteers and a
// sample activity. Intended for development only.
func main() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("cause_connect")
	users := db.Collection("users")
	activities := db.Collection("activities")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	now := time.Now()
	orgID := primitive.NewObjectID()

	seedUsers := []interface{}{
		bson.M{
			"_id":           orgID,
			"name":          "Green City Initiative",
			"email":         "org@example.com",
			"password_hash": string(hash),
			"role":          "organization",
			"bio":           "Urban greening projects",
			"created_at":    now,
			"updated_at":    now,
		},
		bson.M{
			"name":          "Ada Volunteer",
			"email":         "ada@example.com",
			"password_hash": string(hash),
			"role":          "volunteer",
			"created_at":    now,
			"updated_at":    now,
		},
		bson.M{
			"name":          "Ben Volunteer",
			"email":         "ben@example.com",
			"password_hash": string(hash),
			"role":          "volunteer",
			"created_at":    now,
			"updated_at":    now,
		},
	}

	userResult, err := users.InsertMany(ctx, seedUsers)
	if err != nil {
		log.Fatal(err)
	}

	activityResult, err := activities.InsertOne(ctx, bson.M{
		"organizer_id":    orgID,
		"title":           "Park cleanup day",
		"description":     "Help us clean up the riverside park.",
		"location":        "Riverside Park",
		"date":            now.AddDate(0, 0, 14),
		"duration":        4.0,
		"private_details": "Meet at the maintenance shed, gate code 4821",
		"created_at":      now,
		"updated_at":      now,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seeded %d users and activity %v\n", len(userResult.InsertedIDs), activityResult.InsertedID)
}
