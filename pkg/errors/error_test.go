package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodePositionNotFound, "position %s not found", "abc")
	suite.Equal(ErrCodePositionNotFound, err.Code)
	suite.Equal("position abc not found", err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeDataUnavailable, "ticker request failed", cause)
	suite.Equal(ErrCodeDataUnavailable, err.Code)
	suite.Equal(cause, err.Cause)
	suite.Equal("[200] ticker request failed: connection reset", err.Error())
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("timeout")
	err := Wrapf(ErrCodeExchangeRequestFailed, cause, "ticker for %s", "BTC")
	suite.Equal("ticker for BTC", err.Message)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestErrorStringWithoutCause() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeDataUnavailable, "no data")
	err := Wrap(ErrCodeStrategyHalted, "strategy halted", cause)
	suite.Equal(ErrCodeStrategyHalted, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeLedgerInvariantViolation, "value mismatch")
	suite.True(HasCode(err, ErrCodeLedgerInvariantViolation))
	suite.False(HasCode(err, ErrCodeInsufficientBalance))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := errors.New("underlying")
	err := Wrap(ErrCodeJournalWriteFailed, "insert failed", cause)
	suite.True(Is(err, cause))

	var target *Error
	suite.True(As(err, &target))
	suite.Equal(ErrCodeJournalWriteFailed, target.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeDataUnavailable)
	suite.Equal(ErrorCode(300), ErrCodeInvalidWeightState)
	suite.Equal(ErrorCode(400), ErrCodeStrategyHalted)
	suite.Equal(ErrorCode(500), ErrCodeInsufficientBalance)
	suite.Equal(ErrorCode(503), ErrCodeLedgerInvariantViolation)
	suite.Equal(ErrorCode(600), ErrCodeExchangeRequestFailed)
	suite.Equal(ErrorCode(700), ErrCodeJournalWriteFailed)
}

func (suite *ErrorTestSuite) TestInsufficientBalanceError() {
	err := NewInsufficientBalanceError(500, 300, "BTC", "core")
	suite.Equal(500.0, err.Required)
	suite.Equal(300.0, err.Available)
	suite.Contains(err.Error(), "insufficient balance for core BTC")
	suite.True(IsInsufficientBalanceError(err))
	suite.True(HasCode(err, ErrCodeInsufficientBalance))

	wrapped := Wrap(ErrCodeOrderRejected, "buy rejected", err)
	suite.True(IsInsufficientBalanceError(wrapped))
	suite.False(IsInsufficientBalanceError(errors.New("other")))
	suite.False(IsInsufficientBalanceError(nil))
}

func (suite *ErrorTestSuite) TestIsFatal() {
	suite.True(IsFatal(New(ErrCodeInvalidInitialCapital, "initial balance must be positive")))
	suite.True(IsFatal(New(ErrCodeInvalidConfiguration, "bad config")))
	suite.False(IsFatal(New(ErrCodeDataUnavailable, "no ticker")))
	suite.False(IsFatal(New(ErrCodeLedgerInvariantViolation, "mismatch")))
	suite.False(IsFatal(errors.New("plain")))
}
