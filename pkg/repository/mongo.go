package repository

import (
	"context"
	"time"

	"github.com/example/bookshop/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// PaymentEvent is one audit entry per payment creation or webhook delivery.
// The payload is stored verbatim since every provider ships its own shape.
type PaymentEvent struct {
	ID        string    `bson:"_id,omitempty"`
	Gateway   string    `bson:"gateway"`
	Action    string    `bson:"action"`
	Reference string    `bson:"reference"`
	Status    string    `bson:"status"`
	Payload   bson.M    `bson:"payload"`
	CreatedAt time.Time `bson:"created_at"`
}

func (m *MongoRepository) LogPaymentEvent(ctx context.Context, event *PaymentEvent) error {
	collection := m.database.Collection(m.config.Collection)
	event.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, event)
	return err
}

func (m *MongoRepository) GetPaymentEvents(ctx context.Context, reference string, limit int64) ([]*PaymentEvent, error) {
	collection := m.database.Collection(m.config.Collection)

	filter := bson.M{"reference": reference}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*PaymentEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}
