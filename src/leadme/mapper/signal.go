package mapper

import (
	"encoding/json"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	"github.com/LuminationDev/leadme-classroom/src/leadme/model"
)

// ErrPlaceholderSignal is returned for the placeholder entry written when a session starts.
var ErrPlaceholderSignal = errors.New("signaling placeholder")

// SnapshotToSignal decodes one signaling queue entry.
func SnapshotToSignal(snap tree.Snapshot) (entity.Signal, error) {
	var rec model.SignalRecord
	if err := snap.Decode(&rec); err != nil {
		return entity.Signal{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: err.Error()}
	}
	if rec.Message == model.AwaitingConnection {
		return entity.Signal{}, ErrPlaceholderSignal
	}
	sender := rec.Sender
	if sender == "" {
		sender = rec.SenderID
	}

	var payload model.SignalPayload
	if err := json.Unmarshal([]byte(rec.Message), &payload); err != nil {
		return entity.Signal{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: "message is not JSON: " + err.Error()}
	}

	sig := entity.Signal{Sender: sender}
	switch {
	case len(payload.ICE) > 0 && string(payload.ICE) != "null":
		var c entity.ICECandidate
		if err := json.Unmarshal(payload.ICE, &c); err != nil {
			return entity.Signal{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: "ice: " + err.Error()}
		}
		sig.ICE = &c
	case len(payload.SDP) > 0 && string(payload.SDP) != "null":
		var d entity.SessionDescription
		if err := json.Unmarshal(payload.SDP, &d); err != nil {
			return entity.Signal{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: "sdp: " + err.Error()}
		}
		if d.Type != entity.SDPOffer && d.Type != entity.SDPAnswer {
			return entity.Signal{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: "unsupported sdp type " + d.Type}
		}
		sig.SDP = &d
	default:
		return entity.Signal{}, &errors.MalformedSnapshotError{Key: snap.Key, Reason: "message carries neither ice nor sdp"}
	}
	return sig, nil
}

// SignalToRecord encodes an outgoing signal for the queue.
func SignalToRecord(sig entity.Signal) (model.SignalRecord, error) {
	var payload any
	switch {
	case sig.ICE != nil:
		payload = struct {
			ICE *entity.ICECandidate `json:"ice"`
		}{sig.ICE}
	case sig.SDP != nil:
		payload = struct {
			SDP *entity.SessionDescription `json:"sdp"`
		}{sig.SDP}
	default:
		return model.SignalRecord{}, errors.New("signal carries neither ice nor sdp")
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		return model.SignalRecord{}, err
	}
	return model.SignalRecord{Sender: sig.Sender, Message: string(msg)}, nil
}
