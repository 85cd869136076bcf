// Package txn wraps multi-document writes in a MongoDB transaction so the
// batch commits or rolls back as a unit. Cascading deletes (organ + its
// maintenance records + the audit snapshot) depend on this all-or-nothing
// behavior.
//
// Transactions require a replica set or mongos. Against a standalone mongod
// (local development), Run detects the "not supported" error and falls back
// to executing the function without a transaction, logging a warning so the
// weaker guarantee is visible.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a MongoDB transaction on db's client. If the server
// does not support transactions, fn runs once more outside a transaction.
// Any error from fn aborts the transaction and is returned unchanged.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runWithoutTxn(ctx, log, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runWithoutTxn(ctx, log, fn)
	}
	return err
}

func runWithoutTxn(ctx context.Context, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("mongodb transactions not supported; executing batch without atomicity")
	}
	return fn(ctx)
}

// Transaction-not-supported server error codes:
// 20 IllegalOperation variants on standalone, 51 and 263 for operations that
// cannot run in a transaction.
var notSupportedCodes = map[int32]struct{}{20: {}, 51: {}, 263: {}}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone mongod, old server version).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if _, hit := notSupportedCodes[cmdErr.Code]; hit {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "illegal operation"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	}
	return false
}
