package prover

import (
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/types"
)

// CreateOrUpdateRevocationState builds a fresh witness over delta when
// prior is nil, or updates a clone of prior's witness otherwise (the
// update recomputes the witness from delta's cumulative sets), per §4.9.
func (s *Service) CreateOrUpdateRevocationState(
	tailsReader clprimitive.TailsReader,
	revRegDef *types.RevocationRegistryDefinition,
	delta *types.RevocationRegistryDelta,
	credRevIdx uint32,
	timestamp int64,
	prior *types.CredentialRevocationState,
) (*types.CredentialRevocationState, error) {
	if err := clprimitive.ValidateIndex(credRevIdx, revRegDef.Value.MaxCredNum); err != nil {
		return nil, err
	}

	issuanceByDefault := revRegDef.Value.IssuanceType.ToBool()
	issued := delta.IssuedIndices()
	revoked := delta.RevokedIndices()

	var witness *clprimitive.Witness
	if prior == nil {
		w, err := s.cl.NewWitness(revRegDef.Value.PublicKeys.AccumKey, credRevIdx, revRegDef.Value.MaxCredNum, issuanceByDefault, issued, revoked, tailsReader)
		if err != nil {
			return nil, err
		}
		witness = w
	} else {
		cloned := *prior.Witness
		if err := cloned.Update(revRegDef.Value.PublicKeys.AccumKey, revRegDef.Value.MaxCredNum, issuanceByDefault, issued, revoked, tailsReader); err != nil {
			return nil, err
		}
		witness = &cloned
	}

	s.log.Debug("updated revocation state", "credRevIdx", credRevIdx, "timestamp", timestamp)
	return &types.CredentialRevocationState{
		Witness:   witness,
		RevReg:    &types.RevocationRegistry{Accum: delta.Accum},
		Timestamp: timestamp,
	}, nil
}
