package documents

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	"github.com/dalemusser/disputehub/internal/app/system/auth"
	"github.com/dalemusser/disputehub/internal/app/system/respond"
	"github.com/dalemusser/disputehub/internal/app/system/timeouts"
	"github.com/dalemusser/disputehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pdfType = "application/pdf"

// multipartSlack covers the form fields and part headers around the file.
const multipartSlack = 64 << 10

// HandleUpload handles POST /documents: one PDF in the "pdf" field plus the
// complaintId and mediatorId form fields.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+multipartSlack)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || errors.Is(err, multipart.ErrMessageTooLarge) {
			respond.Fail(w, h.Log, respond.PayloadTooLarge("File exceeds the 5 MB limit"))
			return
		}
		respond.Fail(w, h.Log, respond.BadRequest("Expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	header, err := singleFile(r.MultipartForm)
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	if header.Size > MaxUploadSize {
		respond.Fail(w, h.Log, respond.PayloadTooLarge("File exceeds the 5 MB limit"))
		return
	}

	complaintID, err := formObjectID(r, "complaintId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	mediatorID, err := formObjectID(r, "mediatorId")
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		respond.Fail(w, h.Log, err)
		return
	}
	defer file.Close()

	if !isPDF(header, file) {
		respond.Fail(w, h.Log, respond.UnsupportedMediaType("Only PDF files are allowed"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Disputes.GetByID(ctx, complaintID); err != nil {
		if errors.Is(err, disputestore.ErrNotFound) {
			respond.Fail(w, h.Log, respond.NotFound("Dispute not found"))
			return
		}
		respond.Fail(w, h.Log, err)
		return
	}

	p := objectPath(time.Now(), header.Filename)
	if err := putPDF(ctx, h.Files, p, file); err != nil {
		h.Log.Error("document upload failed", zap.String("path", p), zap.Error(err))
		respond.Fail(w, h.Log, err)
		return
	}

	doc, err := h.Documents.Create(ctx, models.Document{
		Path:        p,
		FileName:    header.Filename,
		Size:        header.Size,
		ComplaintID: complaintID,
		MediatorID:  mediatorID,
		UploadedBy:  user.ID,
	})
	if err != nil {
		if delErr := h.Files.Delete(ctx, p); delErr != nil {
			h.Log.Warn("failed to clean up uploaded file after create error",
				zap.String("path", p),
				zap.Error(delErr))
		}
		respond.Fail(w, h.Log, err)
		return
	}

	h.Log.Info("document uploaded",
		zap.String("document_id", doc.ID.Hex()),
		zap.String("complaint_id", complaintID.Hex()),
		zap.Int64("size", doc.Size))
	respond.JSON(w, http.StatusCreated, doc)
}

// singleFile returns the one uploaded file, which must be in the pdf field.
func singleFile(form *multipart.Form) (*multipart.FileHeader, error) {
	total := 0
	for _, fhs := range form.File {
		total += len(fhs)
	}
	pdfs := form.File["pdf"]
	switch {
	case total == 0:
		return nil, respond.BadRequest("No file uploaded")
	case total > 1 || len(pdfs) != 1:
		return nil, respond.BadRequest("Upload exactly one file in the pdf field")
	}
	return pdfs[0], nil
}

// isPDF checks the declared part type and the file's leading bytes.
func isPDF(header *multipart.FileHeader, file multipart.File) bool {
	mt, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil || mt != pdfType {
		return false
	}
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return false
	}
	return http.DetectContentType(buf[:n]) == pdfType
}

func formObjectID(r *http.Request, key string) (primitive.ObjectID, error) {
	v := r.FormValue(key)
	if v == "" {
		return primitive.NilObjectID, respond.BadRequest(key + " is required")
	}
	id, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return primitive.NilObjectID, respond.BadRequest("Invalid " + key)
	}
	return id, nil
}
