package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/spiffcs/bbmigrate/internal/constants"
	"github.com/spiffcs/bbmigrate/internal/ghclient"
	"github.com/spiffcs/bbmigrate/internal/log"
	"github.com/spiffcs/bbmigrate/internal/model"
)

// Provisioner creates destination repositories. Organization-scoped when
// Organization is set, user-scoped otherwise.
type Provisioner struct {
	dest         RepositoryCreator
	organization string
	team         string
}

// NewProvisioner creates a provisioner. team is only used for organization
// repositories and may be empty.
func NewProvisioner(dest RepositoryCreator, organization, team string) *Provisioner {
	return &Provisioner{dest: dest, organization: organization, team: team}
}

// OrganizationScoped reports whether repositories are created under an
// organization.
func (p *Provisioner) OrganizationScoped() bool {
	return p.organization != ""
}

// Provision creates a private repository for target with automation
// disabled and the project topic applied, returning the created name.
//
// A creation failure is returned as *ProvisionError, except when the
// destination rate limit is exhausted: no later repository could be created
// either, so that is returned as a plain error like failures after the
// repository exists.
func (p *Provisioner) Provision(ctx context.Context, owner string, target model.MigrationTarget, description string) (string, error) {
	name, err := p.dest.CreateRepository(ctx, model.CreateRepositoryRequest{
		Organization:  p.organization,
		Name:          target.DestinationName,
		Private:       true,
		DefaultBranch: target.DefaultBranch,
		Description:   description,
	})
	if err != nil {
		if errors.Is(err, ghclient.ErrRateLimited) {
			return "", fmt.Errorf("create %s: %w", target.DestinationName, err)
		}
		return "", &ProvisionError{Repository: target.DestinationName, Err: err}
	}
	if name == "" {
		name = target.DestinationName
	}
	log.Info("repository created", "owner", owner, "repo", name)

	if p.OrganizationScoped() && p.team != "" {
		if err := p.dest.GrantTeamPermission(ctx, p.organization, p.team, name, constants.TeamPermission); err != nil {
			return name, fmt.Errorf("grant team %s: %w", p.team, err)
		}
	}

	if err := p.dest.SetActionsEnabled(ctx, owner, name, false); err != nil {
		return name, fmt.Errorf("disable actions: %w", err)
	}

	if target.Topic != "" {
		if err := p.dest.ReplaceTopics(ctx, owner, name, []string{target.Topic}); err != nil {
			return name, fmt.Errorf("set topic %s: %w", target.Topic, err)
		}
	}

	return name, nil
}
