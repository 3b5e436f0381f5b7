package remote

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/fabstock/internal/domain"
)

var tracer = otel.Tracer("fabstock-remote")

// TracingClient wraps a Client with one span per table operation.
type TracingClient struct {
	next Client
}

// NewTracingClient decorates next with tracing.
func NewTracingClient(next Client) *TracingClient {
	return &TracingClient{next: next}
}

// SelectAll with tracing
func (c *TracingClient) SelectAll(ctx context.Context, table string) ([]domain.Record, error) {
	ctx, span := tracer.Start(ctx, "remote.SelectAll",
		trace.WithAttributes(attribute.String("remote.table", table)),
	)
	defer span.End()

	rows, err := c.next.SelectAll(ctx, table)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(rows)))
	return rows, nil
}

// Upsert with tracing
func (c *TracingClient) Upsert(ctx context.Context, table string, rows []domain.Record) error {
	ctx, span := tracer.Start(ctx, "remote.Upsert",
		trace.WithAttributes(
			attribute.String("remote.table", table),
			attribute.Int("remote.rows", len(rows)),
		),
	)
	defer span.End()

	if err := c.next.Upsert(ctx, table, rows); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// DeleteByID with tracing
func (c *TracingClient) DeleteByID(ctx context.Context, table, id string) error {
	ctx, span := tracer.Start(ctx, "remote.DeleteByID",
		trace.WithAttributes(
			attribute.String("remote.table", table),
			attribute.String("remote.id", id),
		),
	)
	defer span.End()

	if err := c.next.DeleteByID(ctx, table, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// Subscribe is not traced: it only registers a callback.
func (c *TracingClient) Subscribe(table string, onChange func()) (func(), error) {
	return c.next.Subscribe(table, onChange)
}

// Close closes the wrapped client.
func (c *TracingClient) Close() error {
	return c.next.Close()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
