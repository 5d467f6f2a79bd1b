// Package registry maps node type names to the factories that build them.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"plugin"
	"slices"
	"strings"
	"sync"

	"github.com/dukex/nodegraph/pkg/protocol"
)

var (
	ErrUnknownNodeType = errors.New("unknown node type")
	ErrNilFactory      = errors.New("nil node factory")
)

// NodeConstructor builds a node of one kind from its id.
type NodeConstructor func(id string) protocol.Node

type Registry struct {
	logger    *slog.Logger
	mu        sync.RWMutex
	factories map[string]protocol.NodeFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log.With("module", "registry"),
		factories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode registers factory under factory.ID(). A later registration for
// the same type replaces the earlier one.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	if factory == nil {
		r.logger.Error("ignoring registration", "error", ErrNilFactory)

		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[factory.ID()]; exists {
		r.logger.Info("overriding node type", "type", factory.ID())
	}

	r.factories[factory.ID()] = factory
}

// RegisterNodeType registers a plain constructor for typeName. The resulting
// factory has no property schema.
func (r *Registry) RegisterNodeType(typeName string, constructor NodeConstructor) {
	if constructor == nil {
		r.logger.Error("ignoring registration", "type", typeName, "error", ErrNilFactory)

		return
	}

	r.RegisterNode(&constructorFactory{typeName: typeName, constructor: constructor})
}

// CreateNode builds a node of typeName. Unknown types are logged and reported
// with ErrUnknownNodeType so that graph loaders can skip them.
func (r *Registry) CreateNode(ctx context.Context, typeName string, id string) (protocol.Node, error) {
	factory, ok := r.Factory(typeName)
	if !ok {
		r.logger.Warn("unknown node type", "type", typeName, "node_id", id)

		return nil, fmt.Errorf("%w: %s", ErrUnknownNodeType, typeName)
	}

	node, err := factory.Create(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s node %s: %w", typeName, id, err)
	}

	return node, nil
}

// Factory returns the factory registered for typeName.
func (r *Registry) Factory(typeName string) (protocol.NodeFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[typeName]

	return factory, ok
}

// PropertySchema returns the JSON schema of typeName's properties, or nil when
// the type is unknown or declares none.
func (r *Registry) PropertySchema(typeName string) map[string]any {
	factory, ok := r.Factory(typeName)
	if !ok {
		return nil
	}

	return factory.Schema()
}

// RegisteredTypes returns the registered type names in sorted order.
func (r *Registry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for typeName := range r.factories {
		types = append(types, typeName)
	}

	slices.Sort(types)

	return types
}

// Factories returns every registered factory ordered by type name.
func (r *Registry) Factories() []protocol.NodeFactory {
	types := r.RegisteredTypes()

	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make([]protocol.NodeFactory, 0, len(types))
	for _, typeName := range types {
		factories = append(factories, r.factories[typeName])
	}

	return factories
}

// LoadNodePlugins opens every shared object under pluginsPath/nodes and
// registers the protocol.NodeFactory each one exports as "Node".
func (r *Registry) LoadNodePlugins(pluginsPath string) ([]protocol.NodeFactory, error) {
	factories, err := loadPlugin[protocol.NodeFactory](r.logger, pluginsPath, "Node")
	if err != nil {
		return nil, err
	}

	for _, factory := range factories {
		r.RegisterNode(factory)
	}

	return factories, nil
}

type constructorFactory struct {
	typeName    string
	constructor NodeConstructor
}

func (f *constructorFactory) Create(_ context.Context, id string) (protocol.Node, error) {
	node := f.constructor(id)
	if node == nil {
		return nil, fmt.Errorf("constructor for %s returned nil", f.typeName)
	}

	return node, nil
}

func (f *constructorFactory) ID() string             { return f.typeName }
func (f *constructorFactory) Name() string           { return f.typeName }
func (f *constructorFactory) Description() string    { return "" }
func (f *constructorFactory) Schema() map[string]any { return nil }

func loadPlugin[T any](logger *slog.Logger, pluginsPath string, symbolName string) ([]T, error) {
	rootPath := pluginsPath + "/" + strings.ToLower(symbolName) + "s"
	root := os.DirFS(rootPath)

	pluginPathList, err := fs.Glob(root, "*.so")
	if err != nil {
		return nil, err
	}

	l := logger.With(slog.String("path", pluginsPath), slog.String("type", symbolName))
	l.Info("Loading plugins")

	pluginList := make([]T, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(rootPath + "/" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p, err)
		}

		castV, ok := v.(T)
		if !ok {
			// exported variables are looked up as pointers
			ptr, isPtr := v.(*T)
			if !isPtr {
				return nil, fmt.Errorf("plugin %s: symbol %s has type %T", p, symbolName, v)
			}

			castV = *ptr
		}

		pluginList = append(pluginList, castV)

		l.Info("Loaded node plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}
