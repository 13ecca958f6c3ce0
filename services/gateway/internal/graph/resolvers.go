// Package graph serves the GraphQL surface of the gateway. Every owner
// reference is resolved lazily, one domain Get per parent object.
package graph

import (
	"context"
	_ "embed"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/sirupsen/logrus"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/services/gateway/internal/backend"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema parses the schema against a resolver bound to b.
func NewSchema(b *backend.Backend, logger logrus.FieldLogger) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, &Resolver{backend: b, logger: logger})
}

// NewHandler returns the POST /graphql handler.
func NewHandler(b *backend.Backend, logger logrus.FieldLogger) (http.Handler, error) {
	schema, err := NewSchema(b, logger)
	if err != nil {
		return nil, err
	}
	return &relay.Handler{Schema: schema}, nil
}

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	backend *backend.Backend
	logger  logrus.FieldLogger
}

func (r *Resolver) fail(err error) error {
	gerr := toGraphError(err)
	if e, ok := gerr.(*Error); ok && e.Code == CodeInternalError {
		r.logger.WithError(err).Error("graph resolver failed")
	}
	return gerr
}

type listArgs struct {
	First *int32
	After *string
}

func (a listArgs) page() (string, int, error) {
	cursor, limit := "", 0
	if a.After != nil {
		cursor = *a.After
	}
	if a.First != nil {
		if *a.First < 0 {
			return "", 0, apperr.Validation("first must not be negative")
		}
		limit = int(*a.First)
	}
	return cursor, limit, nil
}

type idArgs struct {
	ID graphql.ID
}

type pageResolver[R any] struct {
	items []R
	next  string
}

func (p *pageResolver[R]) Items() []R { return p.items }

func (p *pageResolver[R]) NextCursor() *string { return optional(p.next) }

func newPage[T any, R any](page entity.Page[T], wrap func(T) R) *pageResolver[R] {
	items := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, wrap(item))
	}
	return &pageResolver[R]{items: items, next: page.NextCursor}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func list[T any, R any](ctx context.Context, r *Resolver, args listArgs, fetch func(context.Context, string, int) (entity.Page[T], error), wrap func(T) R) (*pageResolver[R], error) {
	cursor, limit, err := args.page()
	if err != nil {
		return nil, r.fail(err)
	}
	page, err := fetch(ctx, cursor, limit)
	if err != nil {
		return nil, r.fail(err)
	}
	return newPage(page, wrap), nil
}

func one[T any, R any](r *Resolver, record T, err error, wrap func(T) R) (R, error) {
	if err != nil {
		var zero R
		return zero, r.fail(err)
	}
	return wrap(record), nil
}
