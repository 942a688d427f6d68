package users

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"
)

// PUT /api/users/profile
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	if email := strings.ToLower(strings.TrimSpace(r.FormValue("email"))); email != "" && email != "null" {
		user.Email = email
	}

	file, handler, err := r.FormFile("avatar")
	if err == nil && handler != nil {
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(handler.Filename))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Avatar must be JPG or PNG"})
			return
		}
		if handler.Size > 5<<20 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Avatar must be 5MB or smaller"})
			return
		}

		raw, err := io.ReadAll(file)
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read avatar"})
			return
		}
		detected := http.DetectContentType(raw)
		if detected != "image/jpeg" && detected != "image/png" {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Avatar must be JPG or PNG"})
			return
		}

		// Decode and re-encode to strip anything that isn't pixel data.
		img, format, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid image"})
			return
		}
		var outBuf bytes.Buffer
		switch format {
		case "jpeg":
			err = jpeg.Encode(&outBuf, img, &jpeg.Options{Quality: 85})
			ext = ".jpg"
		case "png":
			err = png.Encode(&outBuf, img)
		default:
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Avatar must be JPG or PNG"})
			return
		}
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process image"})
			return
		}

		if user.Avatar != nil && *user.Avatar != "" {
			_ = utils.DeleteAvatar(*user.Avatar)
		}

		imgName := "avatar_" + strconv.FormatUint(uint64(uid), 10) + "_" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
		if err := utils.UploadAvatar(imgName, bytes.NewReader(outBuf.Bytes())); err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to upload avatar"})
			return
		}
		user.Avatar = &imgName
	}

	if err := db.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save profile"})
		return
	}

	var avatar interface{}
	if user.Avatar != nil {
		avatar = *user.Avatar
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data: map[string]interface{}{
			"username": user.Username,
			"email":    user.Email,
			"avatar":   avatar,
		},
	})
}

// DELETE /api/users/profile
func DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	if user.Avatar != nil && *user.Avatar != "" {
		// Object may already be gone; clearing the row is what matters.
		_ = utils.DeleteAvatar(*user.Avatar)
	}

	user.Avatar = nil
	if err := db.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to remove avatar"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Avatar removed",
		Data:    map[string]interface{}{"username": user.Username, "avatar": nil},
	})
}
