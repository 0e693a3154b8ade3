package logger

import (
	"time"

	"go.uber.org/zap"
)

// ============================================================================
// HTTP Fields
// ============================================================================

// RequestID is the field for a request identifier
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method is the field for an HTTP method
func Method(v string) zap.Field { return zap.String("method", v) }

// Path is the field for a request path
func Path(v string) zap.Field { return zap.String("path", v) }

// Status is the field for an HTTP status code
func Status(v int) zap.Field { return zap.Int("status", v) }

// Duration is the field for an elapsed time
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ============================================================================
// Store Fields
// ============================================================================

// Op is the field for the service operation being run
func Op(v string) zap.Field { return zap.String("op", v) }

// Entity is the field for an entity name
func Entity(v string) zap.Field { return zap.String("entity", v) }

// EntityID is the field for an entity identifier
func EntityID(v uint64) zap.Field { return zap.Uint64("id", v) }

// Region is the field for a memory region name
func Region(v string) zap.Field { return zap.String("region", v) }

// Count is the field for a number of records
func Count(v int) zap.Field { return zap.Int("count", v) }

// Err is the field for an error
func Err(err error) zap.Field { return zap.Error(err) }
