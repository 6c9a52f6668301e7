package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // Id parsing

	"feedback_board/internal/domain"     // Importing domain models
	"feedback_board/internal/middleware" // Ownership guard
	"feedback_board/internal/store"      // Feedback store
	"feedback_board/internal/web"        // Rendering and flash messages

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

const feedbackContextKey = "feedback"

// FeedbackOwner loads the feedback addressed by :id, keeps it in the context
// for the handler and reports its owner to the ownership guard
func FeedbackOwner(feedback *store.FeedbackStore) middleware.OwnerFunc {
	return func(c *gin.Context) (string, error) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			return "", domain.ErrNotFound
		}
		fb, err := feedback.FindByID(c.Request.Context(), uint(id))
		if err != nil {
			return "", err
		}
		c.Set(feedbackContextKey, fb)
		return fb.Username, nil
	}
}

func feedbackFrom(c *gin.Context) domain.Feedback {
	return c.MustGet(feedbackContextKey).(domain.Feedback)
}

// AddFeedbackPageHandler renders the empty feedback form
func AddFeedbackPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		renderFeedbackForm(c, http.StatusOK, "New Feedback", addFeedbackPath(c.Param("username")), FeedbackForm{}, nil)
	}
}

// AddFeedbackHandler creates a feedback entry for the profile owner
func AddFeedbackHandler(feedback *store.FeedbackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		var form FeedbackForm
		if verr := bindForm(c, &form); verr != nil {
			renderFeedbackForm(c, http.StatusUnprocessableEntity, "New Feedback", addFeedbackPath(username), form, verr.Fields)
			return
		}
		fb, err := feedback.Create(c.Request.Context(), form.Title, form.Content, username)
		if err != nil {
			web.ServerError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"username":    username,
			"feedback_id": fb.ID,
		}).Info("Feedback created")
		web.Redirect(c, profilePath(username), web.Success, "Feedback added!")
	}
}

// EditFeedbackPageHandler renders the form prefilled with the stored entry
func EditFeedbackPageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fb := feedbackFrom(c)
		form := FeedbackForm{Title: fb.Title, Content: fb.Content}
		renderFeedbackForm(c, http.StatusOK, "Edit Feedback", editFeedbackPath(fb.ID), form, nil)
	}
}

// UpdateFeedbackHandler saves a new title and content
func UpdateFeedbackHandler(feedback *store.FeedbackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fb := feedbackFrom(c)
		var form FeedbackForm
		if verr := bindForm(c, &form); verr != nil {
			renderFeedbackForm(c, http.StatusUnprocessableEntity, "Edit Feedback", editFeedbackPath(fb.ID), form, verr.Fields)
			return
		}
		updated, err := feedback.Update(c.Request.Context(), fb.ID, form.Title, form.Content)
		if errors.Is(err, domain.ErrNotFound) {
			web.NotFound(c)
			return
		}
		if err != nil {
			web.ServerError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"username":    updated.Username,
			"feedback_id": updated.ID,
		}).Info("Feedback updated")
		web.Redirect(c, profilePath(updated.Username), web.Success, "Feedback updated!")
	}
}

// DeleteFeedbackHandler removes the entry
func DeleteFeedbackHandler(feedback *store.FeedbackStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fb := feedbackFrom(c)
		err := feedback.Delete(c.Request.Context(), fb.ID)
		if errors.Is(err, domain.ErrNotFound) {
			web.NotFound(c)
			return
		}
		if err != nil {
			web.ServerError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"username":    fb.Username,
			"feedback_id": fb.ID,
		}).Info("Feedback deleted")
		web.Redirect(c, profilePath(fb.Username), web.Success, "Feedback deleted!")
	}
}

func renderFeedbackForm(c *gin.Context, status int, title, action string, form FeedbackForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	web.Render(c, status, "feedback_form.tmpl", gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form.values(),
		"Errors": errs,
	})
}

func addFeedbackPath(username string) string {
	return profilePath(username) + "/feedback/add"
}

func editFeedbackPath(id uint) string {
	return "/feedback/" + strconv.FormatUint(uint64(id), 10) + "/update"
}
