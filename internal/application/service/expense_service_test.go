package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
)

func TestRecordExpenseAttachesActiveShift(t *testing.T) {
	shiftRepo := &fakeShiftRepo{}
	require.NoError(t, shiftRepo.Create(context.Background(), &entity.Shift{
		OpenedAt: time.Now(), Status: enum.ShiftStatusActive,
	}))
	expenseRepo := &fakeExpenseRepo{}
	svc := NewExpenseService(expenseRepo, shiftRepo, noopRecomputer{})

	expense, err := svc.RecordExpense(context.Background(), &RecordExpenseInput{
		Amount: 1500, Category: "supplies", Description: "cooking oil",
	})
	require.NoError(t, err)

	require.NotNil(t, expense.ShiftID)
	assert.Equal(t, shiftRepo.shifts[0].ID, *expense.ShiftID)
	assert.Len(t, expenseRepo.expenses, 1)
}

func TestRecordExpenseOutsideShift(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseRepo{}, &fakeShiftRepo{}, noopRecomputer{})

	expense, err := svc.RecordExpense(context.Background(), &RecordExpenseInput{
		Amount: 1500, Category: "supplies",
	})
	require.NoError(t, err)
	assert.Nil(t, expense.ShiftID)
}

func TestRecordExpenseValidation(t *testing.T) {
	svc := NewExpenseService(&fakeExpenseRepo{}, &fakeShiftRepo{}, noopRecomputer{})

	_, err := svc.RecordExpense(context.Background(), &RecordExpenseInput{
		Amount: -1, Category: "supplies",
	})
	assert.Error(t, err)

	_, err = svc.RecordExpense(context.Background(), &RecordExpenseInput{
		Amount: 100,
	})
	assert.Error(t, err)
}
