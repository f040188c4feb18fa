package factory

import (
	"fmt"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// Session returns a class session with a fixed, valid class code.
func Session() entity.ClassSession {
	return entity.ClassSession{
		ClassCode: "ab23",
		Leader: entity.Leader{
			Name:     "Leader",
			UniqueID: "leader-1",
			UserID:   "user-1",
		},
	}
}

// WebFollower returns the id'th web follower of the Session class.
func WebFollower(id int) *entity.Follower {
	return entity.NewWebFollower(Session().ClassCode, fmt.Sprintf("web-%v", id), fmt.Sprintf("Web Follower %v", id))
}

// MobileFollower returns the id'th mobile follower of the Session class.
func MobileFollower(id int) *entity.Follower {
	return entity.NewMobileFollower(Session().ClassCode, fmt.Sprintf("mobile-%v", id), fmt.Sprintf("Mobile Follower %v", id))
}
