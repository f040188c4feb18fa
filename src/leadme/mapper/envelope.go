package mapper

import (
	"encoding/json"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
)

// RawToEnvelope decodes a response envelope written by a follower.
func RawToEnvelope(key string, raw json.RawMessage) (entity.Envelope, error) {
	var env entity.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return entity.Envelope{}, &errors.MalformedSnapshotError{Key: key, Reason: err.Error()}
	}
	if env.Type == "" {
		return entity.Envelope{}, &errors.MalformedSnapshotError{Key: key, Reason: "envelope has no type"}
	}
	return env, nil
}
