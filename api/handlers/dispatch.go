package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"socialcal/api/middleware"
	"socialcal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type Operation string

const (
	OpSignUp         Operation = "signUp"
	OpSignIn         Operation = "signIn"
	OpCheckEmail     Operation = "checkEmail"
	OpSignOut        Operation = "signOut"
	OpMyProfile      Operation = "myProfile"
	OpUpdateProfile  Operation = "updateProfile"
	OpCreateSchedule Operation = "createSchedule"
	OpUpdateSchedule Operation = "updateSchedule"
	OpDeleteSchedule Operation = "deleteSchedule"
	OpMySchedules    Operation = "mySchedules"
	OpRequestFriend  Operation = "requestFriend"
	OpAcceptFriend   Operation = "acceptFriend"
	OpDenyFriend     Operation = "denyFriend"
	OpRemoveFriend   Operation = "removeFriend"
	OpFriends        Operation = "friends"
	OpFriendRequests Operation = "friendRequests"
	OpFriendSchedule Operation = "friendSchedule"
)

const (
	codeBadRequest       = "BAD_REQUEST"
	codeUnknownOperation = "UNKNOWN_OPERATION"
)

type QueryRequest struct {
	Operation string          `json:"operation" binding:"required"`
	Args      json.RawMessage `json:"args"`
}

type ErrorBody struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Fields  []services.FieldError `json:"fields,omitempty"`
}

// handlerFunc runs one operation. id is nil for public operations.
type handlerFunc func(ctx context.Context, id *services.Identity, args []byte) (interface{}, error)

type operation struct {
	public bool
	handle handlerFunc
}

// Dispatcher serves every operation through one endpoint. The operation set
// is fixed at construction.
type Dispatcher struct {
	accounts  *services.AccountService
	engine    *services.RelationshipEngine
	schedules *services.ScheduleService
	log       *zap.Logger
	service   string
	ops       map[Operation]operation
}

func NewDispatcher(
	accounts *services.AccountService,
	engine *services.RelationshipEngine,
	schedules *services.ScheduleService,
	log *zap.Logger,
	serviceName string,
) *Dispatcher {
	d := &Dispatcher{
		accounts:  accounts,
		engine:    engine,
		schedules: schedules,
		log:       log,
		service:   serviceName,
		ops:       map[Operation]operation{},
	}
	d.registerAccountOps()
	d.registerProfileOps()
	d.registerScheduleOps()
	d.registerFriendOps()
	return d
}

func (d *Dispatcher) public(name Operation, h handlerFunc) {
	d.ops[name] = operation{public: true, handle: h}
}

func (d *Dispatcher) protected(name Operation, h handlerFunc) {
	d.ops[name] = operation{handle: h}
}

// Operations lists the registered operation names.
func (d *Dispatcher) Operations() []Operation {
	names := make([]Operation, 0, len(d.ops))
	for name := range d.ops {
		names = append(names, name)
	}
	return names
}

// Query handles POST /api/v1/query.
func (d *Dispatcher) Query(c *gin.Context) {
	start := time.Now()

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBody{Code: codeBadRequest, Message: "Request body must be {\"operation\", \"args\"}."}})
		return
	}
	name := Operation(req.Operation)
	op, ok := d.ops[name]
	if !ok {
		middleware.RecordOperation("unknown", d.service, time.Since(start), codeUnknownOperation)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBody{Code: codeUnknownOperation, Message: "Unknown operation."}})
		return
	}

	var id *services.Identity
	if !op.public {
		var err error
		if id, err = middleware.IdentityFrom(c); err != nil {
			d.fail(c, name, start, err, true)
			return
		}
	}

	result, err := op.handle(c.Request.Context(), id, req.Args)
	if err != nil {
		d.fail(c, name, start, err, false)
		return
	}
	middleware.RecordOperation(string(name), d.service, time.Since(start), "")
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// fail writes the error envelope. The cause is logged, never sent.
func (d *Dispatcher) fail(c *gin.Context, name Operation, start time.Time, err error, gate bool) {
	kind := services.KindOf(err)
	status, body := errorResponse(kind, gate)

	var verrs services.ValidationErrors
	if kind == services.ValidationError && errors.As(err, &verrs) {
		body.Fields = verrs
	}

	if status >= http.StatusInternalServerError {
		d.log.Error("operation failed", zap.String("operation", string(name)), zap.Error(err))
	} else {
		d.log.Debug("operation rejected", zap.String("operation", string(name)), zap.Error(err))
	}
	_ = c.Error(err)
	middleware.RecordOperation(string(name), d.service, time.Since(start), body.Code)
	c.JSON(status, gin.H{"error": body})
}

// typed decodes the operation args into T before calling fn. Missing args
// decode as the zero value.
func typed[T any, R any](fn func(ctx context.Context, id *services.Identity, args T) (R, error)) handlerFunc {
	return func(ctx context.Context, id *services.Identity, raw []byte) (interface{}, error) {
		var args T
		if len(raw) > 0 && string(raw) != "null" {
			if err := binding.JSON.BindBody(raw, &args); err != nil {
				return nil, &services.Error{Kind: services.ValidationError, Message: "malformed args", Err: err}
			}
		}
		return fn(ctx, id, args)
	}
}

type noArgs struct{}

type nicknameArgs struct {
	Nickname string `json:"nickname"`
}

// Health handles GET /healthz.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
