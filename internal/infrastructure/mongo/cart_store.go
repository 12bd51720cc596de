package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CartStore = (*CartStore)(nil)

const opTimeout = 3 * time.Second

// cartDocument forma del carrito en la colección. El precio se guarda como texto decimal.
type cartDocument struct {
	UserID    string          `bson:"_id"`
	Items     []cartItemField `bson:"items"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

type cartItemField struct {
	ProductID string `bson:"product_id"`
	Title     string `bson:"title"`
	Price     string `bson:"price"`
	Image     string `bson:"image"`
	Stock     int    `bson:"stock"`
	Quantity  int    `bson:"quantity"`
}

// CartStore carritos en MongoDB, un documento por usuario (CART_STORE=mongo).
type CartStore struct {
	collection *mongo.Collection
	ttl        time.Duration
}

// NewCartStore construye el almacén sobre la colección dada.
func NewCartStore(collection *mongo.Collection, ttl time.Duration) *CartStore {
	return &CartStore{collection: collection, ttl: ttl}
}

// EnsureIndexes crea el índice TTL sobre updated_at: Mongo elimina los carritos inactivos.
func (s *CartStore) EnsureIndexes(ctx context.Context) error {
	if s.ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("carts_ttl").SetExpireAfterSeconds(int32(s.ttl.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("crear índice TTL de carritos: %w", err)
	}
	return nil
}

// Get obtiene el carrito del usuario o (nil, nil).
func (s *CartStore) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc cartDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return fromDocument(doc)
}

// Save reemplaza el documento del usuario (upsert).
func (s *CartStore) Save(ctx context.Context, c *entity.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := toDocument(c)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.UserID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete elimina el carrito del usuario; no falla si no existía.
func (s *CartStore) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func toDocument(c *entity.Cart) cartDocument {
	doc := cartDocument{UserID: c.UserID, Items: make([]cartItemField, 0, len(c.Items)), UpdatedAt: c.UpdatedAt}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}
	for _, it := range c.Items {
		doc.Items = append(doc.Items, cartItemField{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price.String(),
			Image:     it.Image,
			Stock:     it.Stock,
			Quantity:  it.Quantity,
		})
	}
	return doc
}

func fromDocument(doc cartDocument) (*entity.Cart, error) {
	c := &entity.Cart{UserID: doc.UserID, Items: make([]entity.CartItem, 0, len(doc.Items)), UpdatedAt: doc.UpdatedAt}
	for _, it := range doc.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("precio inválido en carrito %s: %w", doc.UserID, err)
		}
		c.Items = append(c.Items, entity.CartItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     price,
			Image:     it.Image,
			Stock:     it.Stock,
			Quantity:  it.Quantity,
		})
	}
	return c, nil
}
