package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	// 测试基本错误创建
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("Invalid parameter", err.Message)
	suite.Empty(err.Details)

	// 测试带详情的错误
	err = New(ErrRoomNotFound, "code: ABC123")
	suite.NotNil(err)
	suite.Equal(ErrRoomNotFound, err.Code)
	suite.Equal("Room not found", err.Message)
	suite.Equal("code: ABC123", err.Details)

	// 测试多个详情
	err = New(ErrDatabaseConnect, "connect failed", "host: localhost", "port: 5432")
	suite.Equal("connect failed; host: localhost; port: 5432", err.Details)
}

// 测试格式化错误创建
func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrRoomFull, "room %s already has %d players", "XYZ789", 4)
	suite.NotNil(err)
	suite.Equal(ErrRoomFull, err.Code)
	suite.Equal("room XYZ789 already has 4 players", err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	// 包装标准错误
	originalErr := errors.New("original error")
	wrappedErr := Wrap(originalErr, ErrDatabaseQuery)
	suite.NotNil(wrappedErr)
	suite.Equal(ErrDatabaseQuery, wrappedErr.Code)
	suite.Equal("original error", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)

	// 包装nil错误
	nilErr := Wrap(nil, ErrUnknown)
	suite.Nil(nilErr)

	// 包装已有的AppError
	appErr := New(ErrRoomNotFound, "code: ZZZZZZ")
	wrappedAppErr := Wrap(appErr, ErrInvalidParam, "extra detail")
	suite.Equal(ErrRoomNotFound, wrappedAppErr.Code) // 保留原始错误码
	suite.Contains(wrappedAppErr.Details, "extra detail")
}

// 测试格式化错误包装
func (suite *ErrorsTestSuite) TestWrapf() {
	originalErr := errors.New("connection timed out")
	wrappedErr := Wrapf(originalErr, ErrDatabaseConnect, "database %s unreachable", "postgres")
	suite.NotNil(wrappedErr)
	suite.Equal(ErrDatabaseConnect, wrappedErr.Code)
	suite.Equal("database postgres unreachable", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIs() {
	err := New(ErrRoomFull)
	suite.True(Is(err, ErrRoomFull))
	suite.False(Is(err, ErrRoomNotFound))
	suite.False(Is(nil, ErrRoomFull))

	// 测试标准错误
	standardErr := errors.New("standard error")
	suite.False(Is(standardErr, ErrUnknown))
}

// 测试获取错误码
func (suite *ErrorsTestSuite) TestGetCode() {
	// AppError
	appErr := New(ErrDuplicatePlayer)
	suite.Equal(ErrDuplicatePlayer, GetCode(appErr))

	// 标准错误
	standardErr := errors.New("standard error")
	suite.Equal(ErrUnknown, GetCode(standardErr))

	// nil错误
	suite.Equal(ErrorCode(0), GetCode(nil))
}

// 测试获取客户端消息
func (suite *ErrorsTestSuite) TestGetMessage() {
	suite.Equal("Room is full", GetMessage(New(ErrRoomFull)))
	suite.Equal("Unknown error", GetMessage(errors.New("boom")))
	suite.Equal("", GetMessage(nil))
}

// 测试错误消息
func (suite *ErrorsTestSuite) TestError() {
	// 只有消息
	err := &AppError{
		Code:    ErrRoomNotFound,
		Message: "Room not found",
	}
	suite.Equal("[2000] Room not found", err.Error())

	// 有详情
	err.Details = "code: ABC123"
	suite.Equal("[2000] Room not found: code: ABC123", err.Error())
}

// 测试Unwrap
func (suite *ErrorsTestSuite) TestUnwrap() {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(originalErr, ErrUnknown)
	suite.Equal(originalErr, wrappedErr.Unwrap())

	// 没有原因的错误
	err := New(ErrUnknown)
	suite.Nil(err.Unwrap())
}

// 测试WithDetails
func (suite *ErrorsTestSuite) TestWithDetails() {
	err := New(ErrInvalidParam)
	err.WithDetails("name must not be empty")
	suite.Equal("name must not be empty", err.Details)
}

// 测试WithCause
func (suite *ErrorsTestSuite) TestWithCause() {
	err := New(ErrDatabaseQuery)
	cause := errors.New("syntax error")
	err.WithCause(cause)
	suite.Equal(cause, err.Cause)
	suite.Equal("syntax error", err.Details)

	// 已有Details的情况
	err2 := New(ErrDatabaseQuery, "query failed")
	err2.WithCause(cause)
	suite.Equal(cause, err2.Cause)
	suite.Equal("query failed", err2.Details) // 保留原有Details
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrInvalidParam, 400},
		{ErrRoomNotFound, 404},
		{ErrRoomFull, 400},
		{ErrDuplicatePlayer, 400},
		{ErrInvalidCode, 400},
		{ErrTimeout, 408},
		{ErrDatabaseConnect, 503},
		{ErrUnknown, 500},
	}

	for _, tc := range testCases {
		err := New(tc.code)
		suite.Equal(tc.expected, err.HTTPStatus(), "错误码 %d 应该返回HTTP状态码 %d", tc.code, tc.expected)
	}
}

// 测试可重试判断
func (suite *ErrorsTestSuite) TestIsRetryable() {
	retryableErrors := []ErrorCode{
		ErrTimeout,
		ErrWebSocketConnect,
		ErrDatabaseConnect,
	}

	for _, code := range retryableErrors {
		err := New(code)
		suite.True(IsRetryable(err), "错误码 %d 应该是可重试的", code)
	}

	// 不可重试的错误
	nonRetryableErrors := []ErrorCode{
		ErrInvalidParam,
		ErrRoomNotFound,
		ErrRoomFull,
	}

	for _, code := range nonRetryableErrors {
		err := New(code)
		suite.False(IsRetryable(err), "错误码 %d 不应该是可重试的", code)
	}

	// nil错误
	suite.False(IsRetryable(nil))
}

// 测试严重错误判断
func (suite *ErrorsTestSuite) TestIsCritical() {
	criticalErrors := []ErrorCode{
		ErrDatabaseConnect,
		ErrConfigLoad,
		ErrConfigMissing,
		ErrDataIntegrity,
	}

	for _, code := range criticalErrors {
		err := New(code)
		suite.True(IsCritical(err), "错误码 %d 应该是严重错误", code)
	}

	// 非严重错误
	nonCriticalErrors := []ErrorCode{
		ErrInvalidParam,
		ErrRoomNotFound,
		ErrTimeout,
	}

	for _, code := range nonCriticalErrors {
		err := New(code)
		suite.False(IsCritical(err), "错误码 %d 不应该是严重错误", code)
	}

	// nil错误
	suite.False(IsCritical(nil))
}

// 测试调用栈捕获
func (suite *ErrorsTestSuite) TestStackCapture() {
	err := New(ErrUnknown)
	suite.NotNil(err.Stack)
	suite.Greater(len(err.Stack), 0)

	// 获取格式化的调用栈
	stackStr := err.GetStack()
	suite.NotEmpty(stackStr)
}

// 测试错误响应
func (suite *ErrorsTestSuite) TestErrorResponse() {
	err := New(ErrRoomNotFound, "code: ABC123")
	response := NewErrorResponse(err, "req-123")

	suite.False(response.Success)
	suite.Equal(err, response.Error)
	suite.Equal("req-123", response.RequestID)
	suite.Greater(response.Timestamp, int64(0))
}

// 测试未知错误码
func (suite *ErrorsTestSuite) TestUnknownErrorCode() {
	// 使用未定义的错误码
	err := New(ErrorCode(99999))
	suite.Equal(ErrorCode(99999), err.Code)
	suite.Equal("Unknown error", err.Message) // 应该使用默认消息
}

// 测试房间相关错误
func (suite *ErrorsTestSuite) TestRoomErrors() {
	roomErrors := map[ErrorCode]string{
		ErrRoomNotFound:       "Room not found",
		ErrRoomFull:           "Room is full",
		ErrDuplicatePlayer:    "You are already in this room",
		ErrInvalidCode:        "Invalid room code",
		ErrRoomFinished:       "Game already finished",
		ErrGameAlreadyStarted: "Game already started",
		ErrNotInRoom:          "You are not in this room",
	}

	for code, expectedMsg := range roomErrors {
		err := New(code)
		suite.Equal(expectedMsg, err.Message)
	}
}

// 测试通信相关错误
func (suite *ErrorsTestSuite) TestCommunicationErrors() {
	commErrors := map[ErrorCode]string{
		ErrWebSocketConnect: "WebSocket connection failed",
		ErrWebSocketSend:    "WebSocket send failed",
		ErrWebSocketReceive: "WebSocket receive failed",
		ErrWebSocketClosed:  "WebSocket connection closed",
		ErrMessageFormat:    "Malformed message",
	}

	for code, expectedMsg := range commErrors {
		err := New(code)
		suite.Equal(expectedMsg, err.Message)
	}
}

// 测试数据库相关错误
func (suite *ErrorsTestSuite) TestDatabaseErrors() {
	dbErrors := map[ErrorCode]string{
		ErrDatabaseConnect: "Database connection failed",
		ErrDatabaseQuery:   "Database query failed",
		ErrDatabaseInsert:  "Database insert failed",
		ErrDatabaseUpdate:  "Database update failed",
		ErrDatabaseDelete:  "Database delete failed",
		ErrTransaction:     "Transaction failed",
		ErrDataIntegrity:   "Data integrity error",
	}

	for code, expectedMsg := range dbErrors {
		err := New(code)
		suite.Equal(expectedMsg, err.Message)
	}
}

// 测试配置相关错误
func (suite *ErrorsTestSuite) TestConfigErrors() {
	configErrors := map[ErrorCode]string{
		ErrConfigLoad:     "Failed to load configuration",
		ErrConfigParse:    "Failed to parse configuration",
		ErrConfigValidate: "Configuration validation failed",
		ErrConfigMissing:  "Missing configuration item",
	}

	for code, expectedMsg := range configErrors {
		err := New(code)
		suite.Equal(expectedMsg, err.Message)
	}
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
