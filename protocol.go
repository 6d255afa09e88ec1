package main

// Message types on the reliable (WebSocket) channel, server → client.
// ACK/NACK answer a buzz, but arrive here rather than on the buzz channel.
const (
	typeQuestion    = "question"     // next question, with options
	typeEligibility = "eligibility"  // buzzing is now allowed
	typeAck         = "ack"          // you buzzed first; answer now
	typeNack        = "nack"         // someone else buzzed first
	typeCorrect     = "correct"      // your answer was right
	typeWrong       = "wrong"        // your answer was wrong
	typeTimeout     = "timeout"      // you did not answer in time
	typeScoreUpdate = "score_update" // full score table
	typeGameOver    = "game_over"    // no questions remain
	typeKillClient  = "kill_client"  // server is going away; disconnect

	// Client → server.
	typeAnswer = "answer"
)

// QuestionMessage carries one question to all clients. The correct option
// never leaves the server.
type QuestionMessage struct {
	Type    string   `json:"type"`    // "question"
	Number  int      `json:"number"`  // 1-based sequence number
	Text    string   `json:"text"`    // question text
	Options []string `json:"options"` // exactly four options, A through D
}

// ScoreUpdateMessage broadcasts the full client id → score table.
type ScoreUpdateMessage struct {
	Type   string      `json:"type"` // "score_update"
	Scores map[int]int `json:"scores"`
}

// SimpleMessage covers the payload-free notifications (ack, nack, correct,
// wrong, timeout, eligibility, game_over, kill_client).
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"` // optional user-facing text
}

// ClientMessage is what we accept on the reliable channel from clients.
type ClientMessage struct {
	Type     string `json:"type"`               // "answer"
	Question int    `json:"question,omitempty"` // question sequence number
	Option   string `json:"option,omitempty"`   // selected option letter, "A".."D"
}

// BuzzMessage is the fire-and-forget datagram on the shared buzz channel.
// The embedded timestamp and address are diagnostic only: arbitration order
// is defined by server receipt, since client clocks are not synchronized.
type BuzzMessage struct {
	Timestamp int64  `json:"timestamp"` // client wall clock, unix milliseconds
	Addr      string `json:"addr"`      // client's own view of its address
}

// Answer is a stored submission, pending until the orchestrator takes it.
type Answer struct {
	Question int
	Option   string
}
