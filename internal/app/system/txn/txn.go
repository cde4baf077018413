// Package txn runs multi-document writes inside a MongoDB transaction when
// the deployment supports one, and falls back to running them directly on
// standalone servers.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RunTracked executes fn inside a transaction on db's client and reports
// whether the transaction path was used.
//
// When the server rejects transactions (standalone mongod, some DocumentDB
// setups) fn is run once without a session and transactional is false, so
// callers that need compensation can tell the two paths apart.
func RunTracked(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) (transactional bool, err error) {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logFallback(log, err)
			return false, fn(ctx)
		}
		return false, err
	}
	defer sess.EndSession(ctx)

	called := false
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		called = true
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logFallback(log, err)
		return false, fn(ctx)
	}
	return called && err == nil, err
}

func logFallback(log *zap.Logger, err error) {
	if log == nil {
		return
	}
	log.Debug("transactions not supported, running without one", zap.Error(err))
}

// IsNotSupported reports whether err means the server cannot run
// transactions (as opposed to a failure inside one).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation: "Transaction numbers are only allowed on a replica set member or mongos"
			51,  // legacy illegal operation
			263: // OperationNotSupportedInTransaction
			return true
		}
	}

	s := strings.ToLower(err.Error())
	has := func(words ...string) bool {
		for _, w := range words {
			if !strings.Contains(s, w) {
				return false
			}
		}
		return true
	}
	return has("transaction", "replica set") ||
		has("session", "not supported") ||
		has("transaction", "session") ||
		has("illegal operation")
}
