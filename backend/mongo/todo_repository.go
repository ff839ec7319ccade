// Package mongo provides a MongoDB todo repository.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/modernice/todoapi/todo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultURL is the connection string that is used if neither the URL option
// nor the "MONGO_URL" environment variable is set.
const DefaultURL = "mongodb://localhost:27017"

var _ todo.Repository = (*TodoRepository)(nil)

// TodoRepository is a MongoDB todo repository. Todos are stored as documents
// and listed in insertion order.
type TodoRepository struct {
	url        string
	database   string
	collection string

	client *mongo.Client
	col    *mongo.Collection

	onceConnect sync.Once
	connectErr  error

	position int64
}

// Option is an option for the MongoDB todo repository.
type Option func(*TodoRepository)

// URL returns an Option that specifies the connection string to the MongoDB
// server.
func URL(url string) Option {
	return func(r *TodoRepository) {
		r.url = url
	}
}

// Database returns an Option that configures the used database. Defaults to
// "todo_api".
func Database(name string) Option {
	return func(r *TodoRepository) {
		r.database = name
	}
}

// Collection returns an Option that configures the used collection. Defaults
// to "todos".
func Collection(name string) Option {
	return func(r *TodoRepository) {
		r.collection = name
	}
}

// Client returns an Option that provides an already connected client.
func Client(c *mongo.Client) Option {
	return func(r *TodoRepository) {
		r.client = c
	}
}

// NewTodoRepository returns a MongoDB todo repository. If not otherwise
// specified using the URL() option, os.Getenv("MONGO_URL") is used as the
// connection string, falling back to DefaultURL.
func NewTodoRepository(opts ...Option) *TodoRepository {
	r := &TodoRepository{
		url:        os.Getenv("MONGO_URL"),
		database:   "todo_api",
		collection: "todos",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.url == "" {
		r.url = DefaultURL
	}
	return r
}

// Collection returns the MongoDB collection of the todos. Collection returns
// nil until the repository is connected.
func (r *TodoRepository) Collection() *mongo.Collection {
	return r.col
}

// Connect connects to MongoDB and creates the indexes of the collection.
// Connect is automatically called by every repository method.
func (r *TodoRepository) Connect(ctx context.Context) error {
	r.onceConnect.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		if r.client == nil {
			client, err := mongo.Connect(ctx, options.Client().ApplyURI(r.url))
			if err != nil {
				r.connectErr = fmt.Errorf("connect to mongo: %w", err)
				return
			}
			r.client = client
		}

		if err := r.client.Ping(ctx, nil); err != nil {
			r.connectErr = fmt.Errorf("ping: %w", err)
			return
		}

		r.col = r.client.Database(r.database).Collection(r.collection)

		if err := r.CreateIndexes(ctx); err != nil {
			r.connectErr = fmt.Errorf("create indexes: %w", err)
		}
	})
	return r.connectErr
}

// Disconnect disconnects the underlying client.
func (r *TodoRepository) Disconnect(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

// CreateIndexes creates the index that is used to list todos in insertion
// order.
func (r *TodoRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "position", Value: 1}},
	})
	return err
}

// List returns the stored todos in insertion order.
func (r *TodoRepository) List(ctx context.Context, opts ...todo.ListOption) ([]todo.Todo, error) {
	if err := r.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	cfg := todo.NewListOptions(opts...)
	findOpts := options.Find().
		SetSort(bson.D{{Key: "position", Value: 1}}).
		SetSkip(int64(cfg.Offset))

	if n, ok := cfg.Limit(); ok {
		// A limit of 0 means "no limit" to MongoDB.
		if n == 0 {
			return []todo.Todo{}, nil
		}
		findOpts.SetLimit(int64(n))
	}

	cur, err := r.col.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	out := make([]todo.Todo, 0, len(docs))
	for _, doc := range docs {
		t, err := doc.todo()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}

// Get returns the todo with the given id.
func (r *TodoRepository) Get(ctx context.Context, id uuid.UUID) (todo.Todo, error) {
	if err := r.Connect(ctx); err != nil {
		return todo.Todo{}, fmt.Errorf("connect: %w", err)
	}

	var doc document
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return todo.Todo{}, notFound(fmt.Errorf("decode todo: %w [id=%s]", err, id))
	}

	return doc.todo()
}

// Create inserts a new todo with the given text.
func (r *TodoRepository) Create(ctx context.Context, text string) (todo.Todo, error) {
	if err := r.Connect(ctx); err != nil {
		return todo.Todo{}, fmt.Errorf("connect: %w", err)
	}

	t := todo.New(text)
	doc := document{
		ID:        t.ID.String(),
		Text:      t.Text,
		Completed: t.Completed,
		Position:  r.nextPosition(),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return todo.Todo{}, fmt.Errorf("insert todo: %w", err)
	}

	return t, nil
}

// Update sets the fields of the patch that are present. An empty patch
// returns the todo unchanged.
func (r *TodoRepository) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (todo.Todo, error) {
	if patch.Empty() {
		return r.Get(ctx, id)
	}

	if err := r.Connect(ctx); err != nil {
		return todo.Todo{}, fmt.Errorf("connect: %w", err)
	}

	set := bson.D{}
	if patch.Text != nil {
		set = append(set, bson.E{Key: "text", Value: *patch.Text})
	}
	if patch.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: *patch.Completed})
	}

	var doc document
	if err := r.col.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc); err != nil {
		return todo.Todo{}, notFound(fmt.Errorf("update todo: %w [id=%s]", err, id))
	}

	return doc.todo()
}

// Delete deletes the todo with the given id.
func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("delete todo: %w [id=%s]", err, id)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%w [id=%s]", todo.ErrNotFound, id)
	}

	return nil
}

func (r *TodoRepository) nextPosition() int64 {
	for {
		last := atomic.LoadInt64(&r.position)
		next := time.Now().UnixNano()
		if next <= last {
			next = last + 1
		}
		if atomic.CompareAndSwapInt64(&r.position, last, next) {
			return next
		}
	}
}

type document struct {
	ID        string `bson:"_id"`
	Text      string `bson:"text"`
	Completed bool   `bson:"completed"`
	Position  int64  `bson:"position"`
}

func (doc document) todo() (todo.Todo, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("parse id: %w [id=%s]", err, doc.ID)
	}
	return todo.Todo{ID: id, Text: doc.Text, Completed: doc.Completed}, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %v", todo.ErrNotFound, err)
	}
	return err
}
