package clifactory

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modernice/todoapi/backend/memory"
	"github.com/modernice/todoapi/backend/mongo"
	"github.com/modernice/todoapi/backend/nats"
	"github.com/modernice/todoapi/backend/postgres"
	"github.com/modernice/todoapi/internal/config"
	"github.com/modernice/todoapi/internal/logging"
	"github.com/modernice/todoapi/todo"
	natsgo "github.com/nats-io/nats.go"
)

// Factory is used by commands to provide common configuration.
type Factory struct {
	Context context.Context
	Config  config.Config
	Logger  *log.Logger

	// Memory forces the in-memory backend.
	Memory bool
}

// Option is a Factory option.
type Option func(*Factory)

// Context returns an Option that sets the Context of a Factory.
func Context(ctx context.Context) Option {
	return func(f *Factory) {
		f.Context = ctx
	}
}

// Config returns an Option that sets the configuration of a Factory.
func Config(cfg config.Config) Option {
	return func(f *Factory) {
		f.Config = cfg
	}
}

// Logger returns an Option that sets the logger of a Factory.
func Logger(l *log.Logger) Option {
	return func(f *Factory) {
		f.Logger = l
	}
}

// New returns a new Factory.
func New(opts ...Option) *Factory {
	f := Factory{
		Config: config.Config{
			Addr:            "127.0.0.1:3000",
			Backend:         config.Postgres,
			PostgresTable:   "todos",
			MongoDatabase:   "todo_api",
			MongoCollection: "todos",
			LogLevel:        "debug",
		},
	}
	for _, opt := range opts {
		opt(&f)
	}
	if f.Context == nil {
		f.Context = context.Background()
	}
	if f.Logger == nil {
		f.Logger = logging.Discard()
	}
	return &f
}

// Backend returns the name of the selected backend.
func (f *Factory) Backend() string {
	if f.Memory {
		return config.Memory
	}
	return strings.ToLower(f.Config.Backend)
}

// Handle connects to the selected backend and returns the shared handle to
// it. The returned function releases the backend's connections.
func (f *Factory) Handle(ctx context.Context) (*todo.Handle, func(context.Context), error) {
	repo, closeRepo, err := f.backend(ctx)
	if err != nil {
		return nil, nil, err
	}

	closeNotifier := func(context.Context) {}
	if f.Config.Notifications() {
		n := nats.NewNotifier(f.notifierOptions()...)
		if err := n.Connect(ctx); err != nil {
			closeRepo(ctx)
			return nil, nil, fmt.Errorf("connect to nats: %w", err)
		}
		f.Logger.Info("Publishing notifications", "url", f.Config.NATSURL)

		repo = todo.Notify(repo, n, todo.OnNotifyError(func(note todo.Notification, err error) {
			f.Logger.Warn("publish notification", "name", note.Name, "todo", note.Todo.ID, "err", err)
		}))

		closeNotifier = func(ctx context.Context) {
			if err := n.Disconnect(ctx); err != nil {
				f.Logger.Warn("disconnect from nats", "err", err)
			}
		}
	}

	return todo.NewHandle(repo), func(ctx context.Context) {
		closeNotifier(ctx)
		closeRepo(ctx)
	}, nil
}

func (f *Factory) backend(ctx context.Context) (todo.Repository, func(context.Context), error) {
	noop := func(context.Context) {}

	switch backend := f.Backend(); backend {
	case config.Memory:
		f.Logger.Info("Using memory backend")
		return memory.NewTodoRepository(), noop, nil

	case config.Postgres:
		f.Logger.Info("Using postgres backend", "table", f.Config.PostgresTable)
		repo := postgres.NewTodoRepository(f.postgresOptions()...)
		if err := repo.Connect(ctx); err != nil {
			repo.Close()
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return repo, func(context.Context) { repo.Close() }, nil

	case config.Mongo:
		f.Logger.Info("Using mongo backend", "database", f.Config.MongoDatabase, "collection", f.Config.MongoCollection)
		repo := mongo.NewTodoRepository(f.mongoOptions()...)
		if err := repo.Connect(ctx); err != nil {
			repo.Disconnect(ctx)
			return nil, nil, fmt.Errorf("connect to mongo: %w", err)
		}
		return repo, func(ctx context.Context) {
			if err := repo.Disconnect(ctx); err != nil {
				f.Logger.Warn("disconnect from mongo", "err", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// postgresOptions returns options for the configured values only, so that an
// unset URL still falls back to POSTGRES_TODOS.
func (f *Factory) postgresOptions() []postgres.Option {
	var opts []postgres.Option
	if f.Config.PostgresURL != "" {
		opts = append(opts, postgres.URL(f.Config.PostgresURL))
	}
	if strings.TrimSpace(f.Config.PostgresTable) != "" {
		opts = append(opts, postgres.Table(f.Config.PostgresTable))
	}
	return opts
}

// mongoOptions returns options for the configured values only, so that an
// unset URL still falls back to MONGO_URL.
func (f *Factory) mongoOptions() []mongo.Option {
	var opts []mongo.Option
	if f.Config.MongoURL != "" {
		opts = append(opts, mongo.URL(f.Config.MongoURL))
	}
	if f.Config.MongoDatabase != "" {
		opts = append(opts, mongo.Database(f.Config.MongoDatabase))
	}
	if f.Config.MongoCollection != "" {
		opts = append(opts, mongo.Collection(f.Config.MongoCollection))
	}
	return opts
}

// notifierOptions leaves the subject prefix to NATS_SUBJECT_PREFIX unless one
// is configured.
func (f *Factory) notifierOptions() []nats.Option {
	opts := []nats.Option{
		nats.URL(f.Config.NATSURL),
		nats.NATSOptions(natsgo.Name("todo")),
	}
	if f.Config.NATSSubjectPrefix != "" {
		opts = append(opts, nats.SubjectPrefix(f.Config.NATSSubjectPrefix))
	}
	return opts
}
