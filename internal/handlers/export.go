package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mindwell-app/mindwell-backend/internal/services"
)

// ExportJournal builds a PDF of the user's profile and journal history.
// Responds with the PDF itself, or with an upload URL when ?upload=true and
// export storage is configured.
func ExportJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := services.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}

	entries, err := entryStore.ListEntriesChronological(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries")
		return
	}

	pdf, err := services.BuildJournalPDF(profile, entries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	if r.URL.Query().Get("upload") == "true" {
		if exportStorage == nil {
			writeError(w, http.StatusServiceUnavailable, "Export uploads are not available")
			return
		}
		filename := fmt.Sprintf("journal-%s", time.Now().Format("20060102-150405"))
		url, err := exportStorage.UploadExport(r.Context(), userID, pdf, filename)
		if err != nil {
			writeError(w, http.StatusBadGateway, "Failed to upload export")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "url": url})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="journal-export.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
