package services

import (
	"context"
	"fmt"

	"github.com/trustgate/trustgate/internal/domain/entities"
	"github.com/trustgate/trustgate/internal/domain/interfaces"
	"github.com/trustgate/trustgate/internal/domain/interfaces/gateways"
	"github.com/trustgate/trustgate/internal/domain/interfaces/services"
)

// validationService implements ValidationService with the trust and
// hygiene business logic; signature inspection goes through the gateway
type validationService struct {
	gateway gateways.SecurityGateway
	logger  interfaces.Logger
}

// NewValidationService creates a new validation service with dependency injection
func NewValidationService(gateway gateways.SecurityGateway, logger interfaces.Logger) services.ValidationService {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &validationService{gateway: gateway, logger: logger}
}

// VerifyPackageIdentity extracts the team identifier from the package
// signature and checks it against the trusted set
func (s *validationService) VerifyPackageIdentity(ctx context.Context, pkgPath string, trusted *entities.TrustedIdentitySet) (entities.SigningIdentity, error) {
	raw, err := s.gateway.InspectPackage(ctx, pkgPath)
	if err != nil {
		return entities.SigningIdentity{Path: pkgPath}, entities.WrapError(entities.ErrSignatureInspectionFailed, pkgPath, err)
	}

	identity := entities.SigningIdentity{Path: pkgPath}
	if id, ok := ExtractPackageTeamID(raw); ok {
		identity.TeamID = id
	}

	if !VerifyIdentity(identity, trusted) {
		extracted := identity.TeamID
		if extracted == "" {
			extracted = "none"
		}
		return identity, entities.NewError(entities.ErrUntrustedPackageIdentity, pkgPath,
			fmt.Sprintf("team ID %s not in trusted set", extracted))
	}

	s.logger.Debug("package identity verified",
		interfaces.F("path", pkgPath), interfaces.F("team_id", identity.TeamID))
	return identity, nil
}
