package model

type CastleSide string

const (
	KingSide  CastleSide = "kingside"
	QueenSide CastleSide = "queenside"
)

type MoveFlags struct {
	Capture    bool       `json:"capture"`
	EnPassant  bool       `json:"enPassant"`
	DoublePush bool       `json:"doublePush"`
	Promotion  bool       `json:"promotion"`
	Castle     CastleSide `json:"castle,omitempty"`
}

// Move is a single pseudo-legal or legal move. Moves are produced fresh for
// every query and never reused across turns.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Piece     PieceType `json:"piece"`
	Color     Color     `json:"color"`
	Captured  *Piece    `json:"captured,omitempty"`
	Promotion PieceType `json:"promotion,omitempty"`
	Flags     MoveFlags `json:"flags"`
	// CaptureSquare is set when the captured piece does not stand on To.
	CaptureSquare *Position `json:"captureSquare,omitempty"`
}

// UCI renders the move in coordinate notation, e.g. "e7e8q".
func (m Move) UCI() string {
	return m.From.String() + m.To.String() + m.Promotion.Letter()
}

// MoveRequest identifies a move by its squares, the way a collaborator asks
// for one. Promotion may be left empty.
type MoveRequest struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// ParseMoveRequest reads coordinate notation such as "e2e4" or "g7g8n".
func ParseMoveRequest(s string) (MoveRequest, bool) {
	if len(s) != 4 && len(s) != 5 {
		return MoveRequest{}, false
	}
	req := MoveRequest{From: s[0:2], To: s[2:4]}
	if _, ok := ParseSquare(req.From); !ok {
		return MoveRequest{}, false
	}
	if _, ok := ParseSquare(req.To); !ok {
		return MoveRequest{}, false
	}
	if len(s) == 5 {
		promo, ok := ParsePieceType(s[4:])
		if !ok || promo == King || promo == Pawn {
			return MoveRequest{}, false
		}
		req.Promotion = promo
	}
	return req, true
}

type DrawReason string

const (
	DrawNone         DrawReason = ""
	DrawStalemate    DrawReason = "stalemate"
	DrawInsufficient DrawReason = "insufficient"
	DrawFiftyMove    DrawReason = "fifty-move"
)

// MoveRecord is what a committed move returns and what history stores.
type MoveRecord struct {
	Move
	Notation       string     `json:"notation"`
	Check          bool       `json:"check"`
	Checkmate      bool       `json:"checkmate"`
	Stalemate      bool       `json:"stalemate"`
	Draw           bool       `json:"draw"`
	DrawReason     DrawReason `json:"drawReason,omitempty"`
	CapturedPiece  *Piece     `json:"capturedPiece,omitempty"`
	FullmoveNumber int        `json:"fullmoveNumber"`
	PreviousState  *GameState `json:"-"`
}

// detached returns a copy that shares no pointers with the history, so
// callers cannot reach the state Undo restores from.
func (r MoveRecord) detached() MoveRecord {
	if r.PreviousState != nil {
		previous := r.PreviousState.Clone()
		r.PreviousState = &previous
	}
	r.Captured = copyPiece(r.Captured)
	r.CapturedPiece = copyPiece(r.CapturedPiece)
	if r.CaptureSquare != nil {
		square := *r.CaptureSquare
		r.CaptureSquare = &square
	}
	return r
}

// Terminal reports whether the record ended the game.
func (r *MoveRecord) Terminal() bool {
	return r.Checkmate || r.Stalemate || r.Draw
}
