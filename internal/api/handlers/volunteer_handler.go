package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/volunteerhub/internal/models"
	"github.com/yoockh/volunteerhub/internal/services"
	"github.com/yoockh/volunteerhub/internal/utils"
)

const defaultMaxUpload = 10 << 20

type VolunteerHandler struct {
	svc       services.VolunteerService
	maxUpload int64
}

func NewVolunteerHandler(svc services.VolunteerService, maxUpload int64) *VolunteerHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &VolunteerHandler{svc: svc, maxUpload: maxUpload}
}

func (h *VolunteerHandler) Signup(c *gin.Context) {
	const op = "VolunteerHandler.Signup"

	// form fields plus the optional file share the upload limit
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "upload too large", err))
			return
		}
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid form body", err))
		return
	}

	availabilities, err := models.ParseAvailabilities(c.PostForm("availabilities"))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "availabilities must be a JSON array", err))
		return
	}

	in := services.SignupInput{
		Name:                 c.PostForm("name"),
		PhoneNumber:          c.PostForm("phone_number"),
		DescriptionParagraph: c.PostForm("desc_paragraph"),
		Email:                c.PostForm("email"),
		Gender:               c.PostForm("gender"),
		VolunteeringRole:     c.PostForm("volunteering_role"),
		Availabilities:       availabilities,
	}

	var upload *services.Upload
	fh, err := c.FormFile("cv")
	if err == nil && fh.Filename != "" {
		file, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
			return
		}
		defer file.Close()

		up, err := newUpload(fh, file)
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
			return
		}
		upload = up
	}

	rec, err := h.svc.Submit(c.Request.Context(), in, upload)
	if err != nil {
		writeError(c, err)
		return
	}

	writeOK(c, http.StatusCreated, "Volunteer signed up!", gin.H{"volunteer": rec})
}

// newUpload keeps the client's content type unless it is missing or
// generic, in which case the first 512 bytes are sniffed.
func newUpload(fh *multipart.FileHeader, file multipart.File) (*services.Upload, error) {
	ct := fh.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return &services.Upload{Filename: fh.Filename, ContentType: ct, Body: file}, nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]

	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: http.DetectContentType(head),
		Body:        io.MultiReader(bytes.NewReader(head), file),
	}, nil
}

func (h *VolunteerHandler) Applications(c *gin.Context) {
	rows, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", gin.H{"applications": rows})
}

func (h *VolunteerHandler) Volunteers(c *gin.Context) {
	rows, err := h.svc.ListApproved(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", gin.H{"volunteers": rows})
}

func (h *VolunteerHandler) Approve(c *gin.Context) {
	if err := h.svc.Approve(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "Application approved.", nil)
}

func (h *VolunteerHandler) Reject(c *gin.Context) {
	if err := h.svc.Reject(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "Application rejected and removed.", nil)
}
