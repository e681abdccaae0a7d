package menuopts

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-menuopts/pkg/activity"
)

// Player identifies a connected client.
type Player interface {
	PlayerID() string
}

// BasicPlayer is a Player carrying the attributes rule expressions can read.
type BasicPlayer struct {
	ID       string
	Name     string
	Metadata map[string]any
}

func (p BasicPlayer) PlayerID() string               { return p.ID }
func (p BasicPlayer) PlayerName() string             { return p.Name }
func (p BasicPlayer) PlayerMetadata() map[string]any { return p.Metadata }

type namedPlayer interface {
	PlayerName() string
}

type attributedPlayer interface {
	PlayerMetadata() map[string]any
}

// Predicate gates delivery of a node to a player. A nil Predicate admits
// everybody.
type Predicate func(Player) bool

// SettingValue is the live state a player reported for one option.
type SettingValue struct {
	Kind          Kind
	SelectedIndex int
	SelectedText  string
	Text          string
	Number        float64
	IsFirst       bool
}

// ValueSource reads the live per-player state held by the transport layer.
// ok is false when the player has not reported a value for id.
type ValueSource interface {
	Setting(ctx context.Context, player Player, id int32) (value SettingValue, ok bool, err error)
}

// Transport renders option nodes for players and owns their live state.
type Transport interface {
	ValueSource
	Broadcast(ctx context.Context, node *OptionNode, options []Option, predicate Predicate) error
	Send(ctx context.Context, player Player, node *OptionNode, options []Option) error
	Retract(ctx context.Context, node *OptionNode, options []Option, predicate Predicate) error
	RetractFrom(ctx context.Context, player Player, node *OptionNode, options []Option) error
}

// IdentifierRegistry maps custom ids to stable numeric ids.
// *registry.Registry satisfies it.
type IdentifierRegistry interface {
	Register(customID string) (int32, error)
	TryGet(customID string) (int32, bool)
	TryCustomID(numericID int32) (string, bool)
}

// HostIDSeeder is implemented by registries that can reserve numeric ids the
// host already owns.
type HostIDSeeder interface {
	SeedHostIDs(ids ...int32)
}

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI represents OpenAPI-compatible JSON Schema documents.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument encapsulates a generated schema output alongside its format
// identifier. Implementations must ensure Document is JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator transforms an option node into a schema document. All
// implementations MUST be safe for concurrent use and handle nil nodes by
// returning an empty schema document.
type SchemaGenerator interface {
	Generate(node *OptionNode) (SchemaDocument, error)
}

// RuleContext carries inputs needed when evaluating an expression.
type RuleContext struct {
	Player   Player
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) playerLabel() string {
	if ctx.Player == nil {
		return "unknown"
	}
	return ctx.Player.PlayerID()
}

func (ctx RuleContext) playerBinding() map[string]any {
	return playerToBinding(ctx.Player)
}

func playerToBinding(player Player) map[string]any {
	binding := map[string]any{
		"id":       "",
		"name":     "",
		"metadata": map[string]any{},
	}
	if player == nil {
		return binding
	}
	binding["id"] = player.PlayerID()
	if named, ok := player.(namedPlayer); ok {
		binding["name"] = named.PlayerName()
	}
	if attributed, ok := player.(attributedPlayer); ok {
		if meta := copyMetadata(attributed.PlayerMetadata()); meta != nil {
			binding["metadata"] = meta
		}
	}
	return binding
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	logger          *slog.Logger
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	evalLogger      EvaluatorLogger
	schemaGenerator SchemaGenerator
	activityHooks   activity.Hooks
	activityConfig  activity.Config
	now             func() time.Time
}

func applyServiceOptions(opts []ServiceOption) serviceConfig {
	cfg := serviceConfig{
		logger:         slog.Default(),
		activityConfig: activity.Config{Enabled: true, Channel: activity.DefaultChannel},
		now:            time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger sets the structured logger used by the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(cfg *serviceConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithEvaluator replaces the default expr-lang rule evaluator.
func WithEvaluator(evaluator Evaluator) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.evaluator = evaluator
	}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.schemaGenerator = generator
	}
}

// WithClock overrides time.Now for rule evaluation and activity timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(cfg *serviceConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}
