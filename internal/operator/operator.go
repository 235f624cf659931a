package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-import/internal/operator/actions"
	"github.com/carson-networks/ledger-import/internal/storage"
)

// Operator is the worker that processes items from the queue. Each item runs
// in its own write transaction: committed when the action succeeds, rolled
// back otherwise.
type Operator struct {
	storage *storage.Storage
	queue   chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(s *storage.Storage, queue chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) (err error) {
	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
			o.rollback(writer, item)
		}
	}()

	if err = item.action.Perform(item.ctx, writer); err != nil {
		o.rollback(writer, item)
		return err
	}

	if err = writer.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (o *Operator) rollback(writer *storage.Writer, item ActionItem) {
	if err := writer.Rollback(); err != nil {
		o.logger.WithError(err).WithField("action", fmt.Sprintf("%T", item.action)).
			Error("Operator.processItem.RollbackError")
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
