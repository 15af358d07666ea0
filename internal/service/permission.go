package service

import "technestia/internal/models"

// CheckPermission decides whether actingUserID may remove targetUserID from
// the project. The project must be loaded with its collaborations.
//
// The owner may remove anyone. A non-owner needs an ACCEPTED FULL-access
// collaboration, and even then cannot remove another FULL-access member;
// only the owner may do that.
func CheckPermission(project *models.Project, actingUserID, targetUserID uint) bool {
	if project.UserID == actingUserID {
		return true
	}
	actorFull := false
	targetFull := false
	for _, collab := range project.Collaborations {
		if collab.Status != models.CollabAccepted || collab.AccessLevel != models.AccessFull {
			continue
		}
		if collab.UserID == actingUserID {
			actorFull = true
		}
		if collab.UserID == targetUserID {
			targetFull = true
		}
	}
	if !actorFull {
		return false
	}
	if targetFull {
		return false
	}
	return true
}
