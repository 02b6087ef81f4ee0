package mongodb

import (
	"context"
	"fmt"

	"fleethub/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

type transactionRunner struct {
	client *mongo.Client
}

func NewTransactionRunner(client *mongo.Client) interfaces.TransactionRunner {
	return &transactionRunner{client: client}
}

func (t *transactionRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
