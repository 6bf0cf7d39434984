// Package notes loads and saves notes as styled text. It sits between the
// note store, which only knows the two HTML fields of a row, and editors,
// which only know styled.Text.
package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/marginalia/internal/cachemanager"
	"github.com/zjrosen/marginalia/internal/flags"
	"github.com/zjrosen/marginalia/internal/log"
	"github.com/zjrosen/marginalia/internal/notehtml"
	"github.com/zjrosen/marginalia/internal/pubsub"
	"github.com/zjrosen/marginalia/internal/styled"
	"github.com/zjrosen/marginalia/internal/tracing"
)

// ErrNotFound is returned (wrapped) when the store has no such note.
var ErrNotFound = errors.New("note not found")

// Store reads and writes the two HTML fields of a note. A missing note is
// reported with an error whose chain holds a NotFound() bool method returning
// true.
type Store interface {
	ReadNoteHTML(ctx context.Context, id string) (contentHTML, ideaHTML string, err error)
	WriteNoteHTML(ctx context.Context, id, contentHTML, ideaHTML string) error
}

// Note is a parsed note. Content is the excerpt, Idea the annotation.
type Note struct {
	ID      string
	Content *styled.Text
	Idea    *styled.Text
}

// Clone returns a deep copy.
func (n Note) Clone() Note {
	return Note{ID: n.ID, Content: cloneText(n.Content), Idea: cloneText(n.Idea)}
}

func cloneText(t *styled.Text) *styled.Text {
	if t == nil {
		return &styled.Text{}
	}
	return t.Clone()
}

// Change is the payload of the events a Service publishes.
type Change struct {
	ID      string
	Content string
	Idea    string
}

// Service converts between stored HTML and styled notes.
type Service struct {
	store  Store
	codec  *notehtml.Codec
	flags  *flags.Registry
	tracer trace.Tracer
	events *pubsub.Broker[Change]

	cache *cachemanager.ReadThroughCache[string, Note, string]
	ttl   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCodec sets the HTML codec. The default is notehtml.New(nil).
func WithCodec(c *notehtml.Codec) Option {
	return func(s *Service) { s.codec = c }
}

// WithFlags sets the feature flag registry.
func WithFlags(r *flags.Registry) Option {
	return func(s *Service) { s.flags = r }
}

// WithTracer sets the tracer spans are recorded with.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithCache caches parsed notes in cm for ttl. A zero ttl uses the cache's
// default expiration.
func WithCache(cm cachemanager.CacheManager[string, Note], ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cachemanager.NewReadThroughCache(cm, s.load, false)
		s.ttl = ttl
	}
}

// NewService creates a note service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		codec:  notehtml.New(nil),
		flags:  flags.New(nil),
		tracer: noop.NewTracerProvider().Tracer("noop"),
		events: pubsub.NewBroker[Change](),
	}
	s.cache = cachemanager.NewReadThroughCache[string, Note, string](nil, s.load, true)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Codec returns the codec the service parses and serializes with.
func (s *Service) Codec() *notehtml.Codec { return s.codec }

// Subscribe returns a channel of saved and normalized notes.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Change] {
	return s.events.Subscribe(ctx)
}

// Close releases subscribers.
func (s *Service) Close() {
	s.events.Close()
}

// Load parses both HTML fields of a note. The caller owns the result; cached
// notes are never handed out directly.
func (s *Service) Load(ctx context.Context, id string) (Note, error) {
	var note Note
	err := tracing.Run(ctx, s.tracer, tracing.SpanNoteLoad, func(ctx context.Context, span trace.Span) error {
		n, err := s.cache.GetWithRefresh(ctx, id, id, s.ttl)
		if err != nil {
			return err
		}
		note = n.Clone()
		span.SetAttributes(
			attribute.Int(tracing.AttrTextRunes, note.Content.Len()+note.Idea.Len()),
			attribute.Int(tracing.AttrTextRuns, note.Content.NumRuns()+note.Idea.NumRuns()),
		)
		return nil
	}, attribute.String(tracing.AttrNoteID, id))
	if err != nil {
		return Note{}, err
	}
	return note, nil
}

func (s *Service) load(ctx context.Context, id string) (Note, error) {
	content, idea, err := s.read(ctx, id)
	if err != nil {
		return Note{}, err
	}
	return Note{ID: id, Content: s.codec.Parse(content), Idea: s.codec.Parse(idea)}, nil
}

func (s *Service) read(ctx context.Context, id string) (string, string, error) {
	trace.SpanFromContext(ctx).AddEvent(tracing.EventStoreRead)
	content, idea, err := s.store.ReadNoteHTML(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return "", "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", "", fmt.Errorf("reading note %s: %w", id, err)
	}
	return content, idea, nil
}

// Save serializes both texts of note and stores them.
func (s *Service) Save(ctx context.Context, note Note) error {
	return tracing.Run(ctx, s.tracer, tracing.SpanNoteSave, func(ctx context.Context, _ trace.Span) error {
		return s.write(ctx, pubsub.UpdatedEvent, Change{
			ID:      note.ID,
			Content: s.codec.Serialize(note.Content),
			Idea:    s.codec.Serialize(note.Idea),
		})
	}, attribute.String(tracing.AttrNoteID, note.ID))
}

// SaveHTML stores raw HTML. With the normalize-on-save flag the HTML is
// round-tripped through the codec first.
func (s *Service) SaveHTML(ctx context.Context, id, contentHTML, ideaHTML string) error {
	normalize := s.flags.Enabled(flags.FlagNormalizeOnSave)
	return tracing.Run(ctx, s.tracer, tracing.SpanNoteSaveHTML, func(ctx context.Context, _ trace.Span) error {
		c := Change{ID: id, Content: contentHTML, Idea: ideaHTML}
		if normalize {
			c.Content = s.codec.Normalize(contentHTML)
			c.Idea = s.codec.Normalize(ideaHTML)
		}
		return s.write(ctx, pubsub.UpdatedEvent, c)
	}, attribute.String(tracing.AttrNoteID, id), attribute.Bool("normalize", normalize))
}

// Normalize round-trips both stored fields through the codec and writes
// them back if either changed.
func (s *Service) Normalize(ctx context.Context, id string) (bool, error) {
	var changed bool
	err := tracing.Run(ctx, s.tracer, tracing.SpanNoteNormalize, func(ctx context.Context, span trace.Span) error {
		content, idea, err := s.read(ctx, id)
		if err != nil {
			return err
		}
		c := Change{ID: id, Content: s.codec.Normalize(content), Idea: s.codec.Normalize(idea)}
		changed = c.Content != content || c.Idea != idea
		span.SetAttributes(attribute.Bool(tracing.AttrChanged, changed))
		if !changed {
			return nil
		}
		return s.write(ctx, pubsub.NormalizedEvent, c)
	}, attribute.String(tracing.AttrNoteID, id))
	return changed, err
}

func (s *Service) write(ctx context.Context, ev pubsub.EventType, c Change) error {
	trace.SpanFromContext(ctx).AddEvent(tracing.EventStoreWrite,
		trace.WithAttributes(attribute.Int(tracing.AttrHTMLBytes, len(c.Content)+len(c.Idea))))

	if err := s.store.WriteNoteHTML(ctx, c.ID, c.Content, c.Idea); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, c.ID)
		}
		return fmt.Errorf("writing note %s: %w", c.ID, err)
	}
	if err := s.cache.Invalidate(ctx, c.ID); err != nil {
		log.ErrorErr(log.CatNotes, "Failed to invalidate cached note", err, "id", c.ID)
	}

	log.Debug(log.CatNotes, "Stored note", "id", c.ID, "event", ev, "trace_id", tracing.TraceID(ctx))
	s.events.Publish(ev, c)
	return nil
}

type notFound interface{ NotFound() bool }

func isNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var nf notFound
	return errors.As(err, &nf) && nf.NotFound()
}
