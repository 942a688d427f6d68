package users

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"
)

type StartBookRequest struct {
	Title string `json:"title"`
}

// POST /api/books
//
// Starting a new book while another is still reading leaves the old one in
// place; clients treat the most recently started book as the current one.
func StartBookHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req StartBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > 200 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Book title must be 1-200 characters"})
		return
	}

	book := models.Book{
		UserID:    uid,
		Title:     req.Title,
		Status:    "reading",
		StartedAt: time.Now(),
	}
	if err := database.DB.Create(&book).Error; err != nil {
		log.Printf("[books] create failed: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Book started", Data: book})
}

// GET /api/books
func ListBooksHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var books []models.Book
	if err := database.DB.Where("user_id = ?", uid).Order("id DESC").Find(&books).Error; err != nil {
		log.Printf("[books] list failed: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "OK", Data: books})
}

// POST /api/books/{id}/finish
func FinishBookHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	bookID, err := pathID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid book id"})
		return
	}
	res, err := database.Engine().FinishBook(uid, bookID)
	if err != nil {
		writeEngineError(w, "books", err)
		return
	}
	writeSnapshot(w, uid, map[string]interface{}{
		"xpAwarded": res.XPAwarded,
		"book": map[string]interface{}{
			"id":    res.Book.ID,
			"title": res.Book.Title,
		},
	})
}
