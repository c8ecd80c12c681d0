package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/cch1/uuid-primary-key/pkg/identity"

// ValidationMode controls how strictly Validate checks a parsed identifier.
type ValidationMode string

const (
	// Strict requires the RFC 4122 variant and a version between 1 and 8.
	Strict ValidationMode = "strict"
	// Permissive accepts any identifier that parses as canonical text.
	Permissive ValidationMode = "permissive"
)

// Manager is the identifier lifecycle a host persistence layer drives:
// validate and assign before the first create, refuse later mutation.
type Manager interface {
	AssignIfAbsent(ctx context.Context, r Identifiable) error
	SetIdentifier(r Identifiable, value string) error
	Validate(ctx context.Context, r Identifiable) error
	ReadAsUUID(r Identifiable) (uuid.UUID, bool, error)
}

// Assigner implements Manager. It is immutable after construction and safe
// for concurrent use.
type Assigner struct {
	gen   Generator
	mode  ValidationMode
	field string
	log   *slog.Logger

	assigned metric.Int64Counter
	rejected metric.Int64Counter
}

var _ Manager = (*Assigner)(nil)

// Option configures an Assigner.
type Option func(*Assigner)

// WithGenerator sets the identifier generator. Default: TimeOrdered(V6).
func WithGenerator(g Generator) Option {
	return func(a *Assigner) { a.gen = g }
}

// WithValidationMode sets the structural check applied by Validate.
// Default: Strict.
func WithValidationMode(m ValidationMode) Option {
	return func(a *Assigner) { a.mode = m }
}

// WithField sets the field name validation errors are keyed to. Default: "id".
func WithField(name string) Option {
	return func(a *Assigner) { a.field = name }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assigner) { a.log = l }
}

// WithMeterProvider sets the provider for the assigner's counters.
// Default: the global OTel meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(a *Assigner) { a.initMetrics(mp) }
}

// NewAssigner returns an Assigner configured by opts.
func NewAssigner(opts ...Option) *Assigner {
	gen, _ := TimeOrdered(V6)
	a := &Assigner{
		gen:   gen,
		mode:  Strict,
		field: "id",
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.assigned == nil {
		a.initMetrics(otel.GetMeterProvider())
	}
	return a
}

func (a *Assigner) initMetrics(mp metric.MeterProvider) {
	meter := mp.Meter(instrumentationName)

	// Instrument creation only fails on invalid names; fall back to no-ops.
	var err error
	a.assigned, err = meter.Int64Counter(
		"identity.assigned",
		metric.WithUnit("{identifier}"),
		metric.WithDescription("The number of identifiers assigned to records."),
	)
	if err != nil {
		a.assigned = nil
	}
	a.rejected, err = meter.Int64Counter(
		"identity.rejected",
		metric.WithUnit("{identifier}"),
		metric.WithDescription("The number of identifiers rejected by validation or mutation checks."),
	)
	if err != nil {
		a.rejected = nil
	}
}

// Field returns the field name validation errors are keyed to.
func (a *Assigner) Field() string {
	return a.field
}

// AssignIfAbsent generates a time-ordered identifier for r unless it already
// has one. It only mutates r in memory.
func (a *Assigner) AssignIfAbsent(ctx context.Context, r Identifiable) error {
	id := r.PrimaryKey()
	if !id.IsNull() {
		a.count(ctx, a.assigned, attribute.String("identity.source", "supplied"))
		return nil
	}

	u, err := a.gen.NewUUID()
	if err != nil {
		return fmt.Errorf("generate identifier: %w", err)
	}
	if err := id.SetIdentifier(u.String()); err != nil {
		return err
	}

	a.count(ctx, a.assigned, attribute.String("identity.source", "generated"))
	a.log.DebugContext(ctx, "identifier assigned", a.field, u.String())
	return nil
}

// SetIdentifier sets r's identifier, failing with ErrImmutableIdentifier if
// it is already non-null.
func (a *Assigner) SetIdentifier(r Identifiable, value string) error {
	if err := r.PrimaryKey().SetIdentifier(value); err != nil {
		a.count(context.Background(), a.rejected, attribute.String("identity.reason", "immutable"))
		return err
	}
	return nil
}

// Validate checks r's identifier before create. A null identifier passes.
// Failures are returned as *FieldError wrapping ErrMalformedIdentifier or
// ErrInvalidIdentifier.
func (a *Assigner) Validate(ctx context.Context, r Identifiable) error {
	u, ok, err := r.PrimaryKey().UUID()
	if !ok {
		return nil
	}
	if err != nil {
		a.count(ctx, a.rejected, attribute.String("identity.reason", "malformed"))
		return &FieldError{Field: a.field, Message: MessageMalformed, Err: err}
	}
	if a.mode == Strict && !WellFormed(u) {
		a.count(ctx, a.rejected, attribute.String("identity.reason", "invalid"))
		return &FieldError{
			Field:   a.field,
			Message: MessageInvalid,
			Err:     fmt.Errorf("%w: variant %s, version %d", ErrInvalidIdentifier, u.Variant(), u.Version()),
		}
	}
	return nil
}

// ReadAsUUID returns r's parsed identifier. ok is false when it is null.
func (a *Assigner) ReadAsUUID(r Identifiable) (uuid.UUID, bool, error) {
	return r.PrimaryKey().UUID()
}

// WellFormed reports whether u carries the RFC 4122 variant and a defined
// version (1 through 8).
func WellFormed(u uuid.UUID) bool {
	v := u.Version()
	return u.Variant() == uuid.RFC4122 && v >= 1 && v <= 8
}

// IsValidationError reports whether err is an identifier field error.
func IsValidationError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}

func (a *Assigner) count(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
