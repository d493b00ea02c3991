package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"walletsync/internal/application/dto"
	portsin "walletsync/internal/application/ports/in"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type NotesController struct {
	noteByLinkUseCase portsin.GetNoteByLinkUseCase
	logger            *log.Logger
}

func NewNotesController(
	noteByLinkUseCase portsin.GetNoteByLinkUseCase,
	logger *log.Logger,
) *NotesController {
	return &NotesController{
		noteByLinkUseCase: noteByLinkUseCase,
		logger:            logger,
	}
}

// GetNoteByLink handles GET /v1/notes. The query carries one of the two
// link encodings: type=note&ephemeralOwner=0x.. or
// type=notev2&sender=0x..&seq=N.
func (c *NotesController) GetNoteByLink(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	link := dto.NoteLink{
		Type:           strings.TrimSpace(query.Get("type")),
		EphemeralOwner: strings.TrimSpace(query.Get("ephemeralOwner")),
		Sender:         strings.TrimSpace(query.Get("sender")),
	}

	if raw := strings.TrimSpace(query.Get("seq")); raw != "" {
		seq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeAppError(w, apperrors.NewValidation(
				"note_link_seq_invalid",
				"seq must be a base-10 integer",
				map[string]any{"seq": raw},
			))
			return
		}
		link.Seq = seq
	}

	note, appErr := c.noteByLinkUseCase.Execute(r.Context(), link)
	if appErr != nil {
		c.logger.Printf("request error path=/v1/notes method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, note)
}
