package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/profile"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

func TestFullName(t *testing.T) {
	type args struct {
		first string
		last  string
		email string
	}

	type testCase struct {
		name string
		args args
		want string
	}

	tests := []testCase{
		{name: "FirstAndLast", args: args{first: " Maria ", last: "Souza", email: "m@x.com"}, want: "Maria Souza"},
		{name: "FirstOnly", args: args{first: "Maria", email: "m@x.com"}, want: "Maria"},
		{name: "LastOnly", args: args{last: "Souza"}, want: "Souza"},
		{name: "EmailFallback", args: args{first: "  ", email: "m@x.com"}, want: "m@x.com"},
		{name: "Literal", args: args{}, want: profile.FallbackName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, profile.FullName(tt.args.first, tt.args.last, tt.args.email))
		})
	}
}

type txLister []*transaction.Transaction

func (l txLister) List(context.Context, uuid.UUID, transaction.ListFilter) ([]*transaction.Transaction, error) {
	return l, nil
}

type goalLister struct {
	goals []*goal.Goal
	err   error
}

func (l goalLister) List(context.Context, uuid.UUID) ([]*goal.Goal, error) {
	return l.goals, l.err
}

func claims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{
		Email:            "joao@example.com",
		FirstName:        "João",
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	}
}

func TestService_Get_RecomputesBalance(t *testing.T) {
	id := uuid.New()
	txs := txLister{
		{Type: transaction.TypeIncome, Amount: decimal.NewFromInt(3000)},
		{Type: transaction.TypeExpense, Amount: decimal.NewFromInt(1200), Category: "housing"},
	}
	goals := goalLister{goals: []*goal.Goal{{CurrentAmount: decimal.NewFromInt(500), TargetAmount: decimal.NewFromInt(1000)}}}

	got, err := profile.NewService(txs, goals).Get(context.Background(), claims(id))
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "João", got.FullName)
	assert.Equal(t, "1300", got.TotalBalance.String())
}

func TestService_Get_Errors(t *testing.T) {
	svc := profile.NewService(txLister{}, goalLister{err: errors.New("db down")})

	_, err := svc.Get(context.Background(), claims(uuid.New()))
	assert.Error(t, err)

	_, err = svc.Get(context.Background(), &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "nope"}})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
