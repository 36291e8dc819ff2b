package mongo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// messageDoc — представление сообщения в коллекции.
type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	IsRead    bool               `bson:"is_read"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d messageDoc) toModel() models.ContactMessage {
	return models.ContactMessage{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Subject:   d.Subject,
		Message:   d.Message,
		IsRead:    d.IsRead,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// encodeCursor кодирует пару (created_at, _id) в непрозрачный токен для клиента.
func encodeCursor(t time.Time, id primitive.ObjectID) string {
	raw := strconv.FormatInt(t.UTC().UnixMilli(), 10) + "|" + id.Hex()

	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor декодирует токен обратно в пару ключей.
func decodeCursor(token string) (time.Time, primitive.ObjectID, error) {
	res, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return time.Time{}, primitive.NilObjectID, err
	}

	ms, hex, ok := strings.Cut(string(res), "|")
	if !ok {
		return time.Time{}, primitive.NilObjectID, errors.New("bad parts")
	}

	millis, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}, primitive.NilObjectID, err
	}

	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return time.Time{}, primitive.NilObjectID, err
	}

	return time.UnixMilli(millis).UTC(), oid, nil
}

// SaveMessage сохраняет сообщение и проставляет ему ID.
// created_at усечён до миллисекунд — точность BSON Date.
func (m *Mongo) SaveMessage(ctx context.Context, msg *models.ContactMessage) error {
	const op = "storage.mongo.SaveMessage"

	doc := messageDoc{
		ID:        primitive.NewObjectID(),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt.UTC().Truncate(time.Millisecond),
	}

	if _, err := m.messages.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg.ID = doc.ID.Hex()
	msg.CreatedAt = doc.CreatedAt

	return nil
}

// ListMessages возвращает страницу сообщений, новые первыми.
// Сортировка: created_at DESC, _id DESC. Битый page_token — storage.ErrInvalidCursor.
func (m *Mongo) ListMessages(ctx context.Context, params models.ListParams) (*models.ContactPage, error) {
	const op = "storage.mongo.ListMessages"

	limit := int64(params.PageSize)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := bson.D{}
	if strings.TrimSpace(params.PageToken) != "" {
		t, oid, err := decodeCursor(params.PageToken)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidCursor)
		}

		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "created_at", Value: bson.D{{Key: "$lt", Value: t}}}},
			bson.D{
				{Key: "created_at", Value: t},
				{Key: "_id", Value: bson.D{{Key: "$lt", Value: oid}}},
			},
		}})
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := m.messages.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var (
		docs  []messageDoc
		items []models.ContactMessage
	)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	for _, d := range docs {
		items = append(items, d.toModel())
	}

	// Неполная страница — продолжения нет.
	var next string
	if n := len(docs); int64(n) == limit {
		last := docs[n-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}

	return &models.ContactPage{Items: items, NextPageToken: next}, nil
}

// MarkMessageRead помечает сообщение прочитанным. Повторная пометка — не ошибка.
func (m *Mongo) MarkMessageRead(ctx context.Context, id string) error {
	const op = "storage.mongo.MarkMessageRead"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.messages.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_read", Value: true}}}},
	)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
