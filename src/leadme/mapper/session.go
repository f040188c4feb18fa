package mapper

import (
	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
)

// ClassSessionToRecord maps a session to the record stored at classCode/{C}.
func ClassSessionToRecord(s entity.ClassSession) model.ClassRecord {
	return model.ClassRecord{
		Name:      s.Leader.Name,
		ClassCode: s.ClassCode,
		UniqueID:  s.Leader.UniqueID,
	}
}

// SignalPlaceholder returns the entry written to ice/{C} when a session starts.
func SignalPlaceholder() map[string]any {
	return map[string]any{
		"leader": model.SignalRecord{Message: model.AwaitingConnection, SenderID: model.PlaceholderSenderID},
	}
}
