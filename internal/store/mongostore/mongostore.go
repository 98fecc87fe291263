// Package mongostore keeps the storefront in MongoDB collections shaped
// like the documents the storefront has always used.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-store/internal/models"
	"petcare-store/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection = "products"
	ordersCollection   = "orders"
	zonesCollection    = "shippingzones"
	usersCollection    = "users"
	eventsCollection   = "processedevents"
)

// Store is the MongoDB-backed store.Repository
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// Connect opens a client against uri and ensures the indexes exist
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database), now: time.Now}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		usersCollection:    {Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		productsCollection: {Keys: bson.D{{Key: "category", Value: 1}}},
		zonesCollection:    {Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", coll, err)
		}
	}
	return nil
}

// Ping checks the server is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Database exposes the underlying database
func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

var oldestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	now := s.timestamp()
	p.CreatedAt, p.UpdatedAt = now, now

	doc, err := newProductDoc(p)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(productsCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = string(category)
	}

	cur, err := s.db.Collection(productsCollection).Find(ctx, filter, oldestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.model()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var doc productDoc
	err := s.db.Collection(productsCollection).FindOne(ctx, bson.M{"_id": objectIDOf(id)}).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	p, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CountProducts(ctx context.Context) (int, error) {
	n, err := s.db.Collection(productsCollection).CountDocuments(ctx, bson.M{})
	return int(n), err
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = models.NewID()
	}
	now := s.timestamp()
	order.CreatedAt, order.UpdatedAt = now, now

	doc, err := newOrderDoc(order)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(ordersCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	cur, err := s.db.Collection(ordersCollection).Find(ctx, bson.M{}, oldestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.model()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var doc orderDoc
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": objectIDOf(id)}).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	o, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = s.timestamp()

	doc, err := newOrderDoc(order)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(ordersCollection).ReplaceOne(ctx, bson.M{"_id": objectIDOf(order.ID)}, doc)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateShippingZone(ctx context.Context, zone *models.ShippingZone) error {
	if zone.ID == "" {
		zone.ID = models.NewID()
	}
	now := s.timestamp()
	zone.CreatedAt, zone.UpdatedAt = now, now

	doc, err := newZoneDoc(zone)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(zonesCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert shipping zone: %w", err)
	}
	return nil
}

func (s *Store) ListShippingZones(ctx context.Context) ([]models.ShippingZone, error) {
	cur, err := s.db.Collection(zonesCollection).Find(ctx, bson.M{}, oldestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping zones: %w", err)
	}
	var docs []zoneDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode shipping zones: %w", err)
	}

	zones := make([]models.ShippingZone, 0, len(docs))
	for _, d := range docs {
		z, err := d.model()
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func (s *Store) GetShippingZoneByType(ctx context.Context, zt models.ZoneType) (*models.ShippingZone, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	var doc zoneDoc
	err := s.db.Collection(zonesCollection).FindOne(ctx, bson.M{"type": string(zt)}, opts).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	z, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = models.NewID()
	}
	now := s.timestamp()
	user.CreatedAt, user.UpdatedAt = now, now

	doc := userDoc{
		ID:           objectIDOf(user.ID),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return &models.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := s.db.Collection(eventsCollection).CountDocuments(ctx, bson.M{"_id": eventID})
	return n > 0, err
}

func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.Collection(eventsCollection).InsertOne(ctx, eventDoc{
		ID:          eventID,
		EventType:   eventType,
		ProcessedAt: s.timestamp(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return nil
}

var _ store.Repository = (*Store)(nil)
