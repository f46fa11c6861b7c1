package protocol

import "github.com/ufo-org/ufo-ipc/value"

// Command names one of the eight operations a controller may issue.
// Shutdown is folded into this enum on the subordinate side even though
// the controller never waits for a response to it, since recv_command must
// still yield it to the host application as a Request.
type Command uint8

const (
	CmdDefineFunction Command = iota
	CmdDefineData
	CmdCall
	CmdFreeFunction
	CmdFreeData
	CmdPeek
	CmdPoke
	CmdShutdown
)

func (c Command) String() string {
	switch c {
	case CmdDefineFunction:
		return "DefineFunction"
	case CmdDefineData:
		return "DefineData"
	case CmdCall:
		return "Call"
	case CmdFreeFunction:
		return "FreeFunction"
	case CmdFreeData:
		return "FreeData"
	case CmdPeek:
		return "Peek"
	case CmdPoke:
		return "Poke"
	case CmdShutdown:
		return "Shutdown"
	}
	return "Command(?)"
}

// Request is what the subordinate's recv loop yields to the host
// application. Only the fields relevant to Command are
// populated; the rest are left zero. A single struct rather than one type
// per command keeps the subordinate's dispatch loop a plain switch, which
// matches how this codebase threads request state through a fixed record
// instead of an interface hierarchy.
type Request struct {
	Command Command

	Token          uint64        // DefineFunction/DefineData (token to bind), Call/FreeFunction/FreeData (token to use)
	FunctionBlob   []byte        // DefineFunction
	AssociatedData []value.Value // DefineFunction
	Value          []value.Value // DefineData, Poke
	Args           []value.Value // Call
	Key            string        // Peek, Poke

	Aux []value.Value
}

// Response is what the controller receives after every request except
// Shutdown.
type Response struct {
	Logs        []LogEntry
	ResponseAux []value.Value
	Value       []value.Value
}
