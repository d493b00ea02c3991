//go:build !integration

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"walletsync/internal/application/dto"
	"walletsync/internal/domain/entities"
	valueobjects "walletsync/internal/domain/value_objects"
	apperrors "walletsync/internal/shared_kernel/errors"
)

func TestGetNoteByLinkOwnerEncoding(t *testing.T) {
	useCase := &fakeNoteByLinkUseCase{
		note: entities.Note{
			Status:         valueobjects.NoteStatusConfirmed,
			Sender:         entities.NamedAccount{Addr: "0x000000000000000000000000000000000000a11c"},
			EphemeralOwner: "0x00000000000000000000000000000000000000ee",
			Dollars:        "1.50",
		},
	}
	controller := NewNotesController(useCase, testControllerLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(
		http.MethodGet,
		"/v1/notes?type=note&ephemeralOwner=0x00000000000000000000000000000000000000ee",
		nil,
	)
	controller.GetNoteByLink(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	if useCase.lastLink.Type != dto.NoteLinkByOwner {
		t.Fatalf("expected owner link, got %s", useCase.lastLink.Type)
	}

	var body entities.Note
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Dollars != "1.50" || body.Status != valueobjects.NoteStatusConfirmed {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestGetNoteByLinkSenderSeqEncoding(t *testing.T) {
	useCase := &fakeNoteByLinkUseCase{}
	controller := NewNotesController(useCase, testControllerLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(
		http.MethodGet,
		"/v1/notes?type=notev2&sender=0x000000000000000000000000000000000000a11c&seq=3",
		nil,
	)
	controller.GetNoteByLink(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if useCase.lastLink.Type != dto.NoteLinkBySenderSeq || useCase.lastLink.Seq != 3 {
		t.Fatalf("unexpected link %+v", useCase.lastLink)
	}
}

func TestGetNoteByLinkRejectsBadSeq(t *testing.T) {
	useCase := &fakeNoteByLinkUseCase{}
	controller := NewNotesController(useCase, testControllerLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/notes?type=notev2&sender=0xabc&seq=oops", nil)
	controller.GetNoteByLink(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if useCase.calls != 0 {
		t.Fatalf("expected use case not called, got %d", useCase.calls)
	}
}

func TestGetNoteByLinkNotFound(t *testing.T) {
	useCase := &fakeNoteByLinkUseCase{
		err: apperrors.NewNotFound("note_not_found", "note not found", nil),
	}
	controller := NewNotesController(useCase, testControllerLogger())

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(
		http.MethodGet,
		"/v1/notes?type=note&ephemeralOwner=0x00000000000000000000000000000000000000ee",
		nil,
	)
	controller.GetNoteByLink(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Error.Code != "note_not_found" {
		t.Fatalf("expected note_not_found, got %s", body.Error.Code)
	}
}

type fakeNoteByLinkUseCase struct {
	note     entities.Note
	err      *apperrors.AppError
	calls    int
	lastLink dto.NoteLink
}

func (f *fakeNoteByLinkUseCase) Execute(
	_ context.Context,
	link dto.NoteLink,
) (entities.Note, *apperrors.AppError) {
	f.calls++
	f.lastLink = link
	if f.err != nil {
		return entities.Note{}, f.err
	}
	return f.note, nil
}
