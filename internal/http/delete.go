package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/libtrack/internal/entities"
	"github.com/avolkov/libtrack/internal/integrity"
)

// DeleteController routes all entity deletions through the integrity
// guard, so nothing with dependent rows can be removed.
type DeleteController struct {
	guard    DeletionGuard
	sessions *SessionManager
}

func NewDeleteController(guard DeletionGuard, sessions *SessionManager) *DeleteController {
	return &DeleteController{guard: guard, sessions: sessions}
}

func (ctrl *DeleteController) Book(c *gin.Context) {
	ctrl.delete(c, entities.KindBook, "book", "/books")
}

func (ctrl *DeleteController) Borrower(c *gin.Context) {
	ctrl.delete(c, entities.KindBorrower, "borrower", "/borrowers")
}

func (ctrl *DeleteController) Category(c *gin.Context) {
	ctrl.delete(c, entities.KindCategory, "category", "/categories")
}

func (ctrl *DeleteController) Author(c *gin.Context) {
	ctrl.delete(c, entities.KindAuthor, "author", "/authors")
}

func (ctrl *DeleteController) Publisher(c *gin.Context) {
	ctrl.delete(c, entities.KindPublisher, "publisher", "/publishers")
}

func (ctrl *DeleteController) delete(c *gin.Context, kind entities.Kind, label, redirect string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.guard.Delete(kind, id)

	var blocked *integrity.BlockedError
	switch {
	case errors.Is(err, integrity.ErrNotFound):
		addFlash(ctrl.sessions, c, FlashDanger, "The "+label+" was not found.")
	case errors.As(err, &blocked):
		addFlash(ctrl.sessions, c, FlashDanger,
			"Cannot delete this "+label+": "+blocked.Error()+".")
	case err != nil:
		flashError(ctrl.sessions, c, err, "Could not delete the "+label+": "+err.Error())
	default:
		addFlash(ctrl.sessions, c, FlashSuccess, "The "+label+" was deleted.")
	}
	c.Redirect(http.StatusSeeOther, redirect)
}
