package service

import (
	"testing"

	"technestia/internal/models"
)

func TestCheckPermission(t *testing.T) {
	const (
		ownerID  = uint(1)
		fullA    = uint(2)
		fullB    = uint(3)
		readOnly = uint(4)
		outsider = uint(5)
	)
	project := &models.Project{
		ID:     10,
		UserID: ownerID,
		Collaborations: []models.Collaboration{
			{UserID: fullA, ProjectID: 10, Status: models.CollabAccepted, AccessLevel: models.AccessFull},
			{UserID: fullB, ProjectID: 10, Status: models.CollabAccepted, AccessLevel: models.AccessFull},
			{UserID: readOnly, ProjectID: 10, Status: models.CollabAccepted, AccessLevel: models.AccessRead},
			// Pending FULL access must not grant anything.
			{UserID: outsider, ProjectID: 10, Status: models.CollabPending, AccessLevel: models.AccessFull},
		},
	}

	tests := []struct {
		name   string
		actor  uint
		target uint
		want   bool
	}{
		{"owner removes full member", ownerID, fullA, true},
		{"owner removes read member", ownerID, readOnly, true},
		{"owner removes outsider", ownerID, outsider, true},
		{"full member removes read member", fullA, readOnly, true},
		{"full member removes another full member", fullA, fullB, false},
		{"read member removes anyone", readOnly, outsider, false},
		{"outsider removes read member", outsider, readOnly, false},
		{"pending full grants nothing", outsider, fullA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPermission(project, tt.actor, tt.target); got != tt.want {
				t.Errorf("CheckPermission(actor=%d, target=%d) = %v, want %v", tt.actor, tt.target, got, tt.want)
			}
		})
	}
}
