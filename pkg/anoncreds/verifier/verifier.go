// Package verifier implements the verifier-side operation of the
// credential protocol: reconstructing sub-proof requests identically to
// the prover and checking a presentation against a presentation request,
// a set of trusted schemas/credential definitions, and, where required,
// revocation state.
package verifier

import (
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/logger"
)

// Service implements presentation verification over a CL primitive
// provider. It is pure: it never mutates its inputs and performs no I/O.
type Service struct {
	cl  clprimitive.Provider
	log *logger.Log
}

func New(cl clprimitive.Provider, log *logger.Log) *Service {
	return &Service{cl: cl, log: log.New("verifier")}
}

// RevRegByTimestamp indexes a revocation registry's historical states by
// the timestamp at which each state held.
type RevRegByTimestamp map[int64]*types.RevocationRegistry

// VerifyPresentation checks presentation against presReq. acceptLegacyRevocation
// additionally tolerates revocation registry identifiers in their
// unqualified, pre-qualification form when looking up revRegs/revRegDefs.
func (s *Service) VerifyPresentation(
	presentation *types.Presentation,
	presReq *types.PresentationRequest,
	schemas map[types.SchemaId]*types.Schema,
	credDefs map[types.CredentialDefinitionId]*types.CredentialDefinition,
	revRegDefs map[types.RevocationRegistryId]*types.RevocationRegistryDefinition,
	revRegs map[types.RevocationRegistryId]RevRegByTimestamp,
	acceptLegacyRevocation bool,
) (bool, error) {
	if err := checkReferentPartition(presentation, presReq); err != nil {
		return false, err
	}
	if len(presentation.Identifiers) != len(presentation.Proof.SubProofs) {
		return false, apperr.New(apperr.Input, "presentation has %d identifiers but %d sub-proofs", len(presentation.Identifiers), len(presentation.Proof.SubProofs))
	}

	attrsByIndex, predicatesByIndex := indexRequestedProof(presentation)

	clVerifier := s.cl.NewProofVerifier()
	for i, ident := range presentation.Identifiers {
		qualified := presReq.RequestVersion == types.PresentationRequestV2
		schema, err := lookupSchema(schemas, ident.SchemaId, qualified)
		if err != nil {
			return false, err
		}
		credDef, err := lookupCredDef(credDefs, ident.CredDefId, qualified)
		if err != nil {
			return false, err
		}
		_ = schema // looked up to enforce presence; sub-proof verification only needs credDef's key

		revealedNames, predicateReqs, err := reconstructSubProofRequest(presReq, attrsByIndex[i], predicatesByIndex[i])
		if err != nil {
			return false, err
		}

		consistent, err := checkAttributeConsistency(presentation, presReq, i, attrsByIndex[i])
		if err != nil {
			return false, err
		}
		if !consistent {
			return false, nil
		}

		hiddenNames := hiddenAttributeNames(credDef, revealedNames)

		var revPub *clprimitive.RevocationPublicKey
		if ident.RevRegId != nil && ident.Timestamp != nil {
			revPub = credDef.Value.Revocation
			if revPub == nil {
				return false, apperr.New(apperr.Input, "credential definition %q does not support revocation", string(ident.CredDefId))
			}
			reg, ok := lookupRevReg(revRegs, *ident.RevRegId, *ident.Timestamp, acceptLegacyRevocation)
			if !ok {
				s.log.Debug("revocation registry entry not found", "revRegId", string(*ident.RevRegId), "timestamp", *ident.Timestamp)
				return false, nil
			}
			if _, ok := revRegDefs[*ident.RevRegId]; !ok && !acceptLegacyRevocation {
				return false, nil
			}
			sp := presentation.Proof.SubProofs[i]
			if sp.NonRevocation == nil || sp.NonRevocation.AccumulatorAt.Cmp(reg.Accum.Value) != 0 {
				s.log.Debug("sub-proof's embedded accumulator does not match the registry state at its declared timestamp", "revRegId", string(*ident.RevRegId), "timestamp", *ident.Timestamp)
				return false, nil
			}
		} else if requiresNonRevoked(presReq, attrsByIndex[i], predicatesByIndex[i]) && credDef.SupportsRevocation() {
			return false, nil
		}

		req := &clprimitive.SubProofRequest{RevealedAttrs: revealedNames, Predicates: predicateReqs}
		clVerifier.AddSubProofRequest(req, credDef.Value.Primary, hiddenNames, clprimitive.MasterSecretName, revPub)
	}

	ok, err := clVerifier.Verify(presentation.Proof, presReq.Nonce.BigInt())
	if err != nil {
		return false, err
	}
	if !ok {
		s.log.Debug("presentation failed cryptographic verification")
	}
	return ok, nil
}

// VerifyPresentationLegacy is VerifyPresentation with legacy-form
// revocation identifiers tolerated; it exists as a distinct entry point
// solely so callers can keep both available per the legacy-revocation
// toggle design note.
func (s *Service) VerifyPresentationLegacy(
	presentation *types.Presentation,
	presReq *types.PresentationRequest,
	schemas map[types.SchemaId]*types.Schema,
	credDefs map[types.CredentialDefinitionId]*types.CredentialDefinition,
	revRegDefs map[types.RevocationRegistryId]*types.RevocationRegistryDefinition,
	revRegs map[types.RevocationRegistryId]RevRegByTimestamp,
) (bool, error) {
	return s.VerifyPresentation(presentation, presReq, schemas, credDefs, revRegDefs, revRegs, true)
}

// referentAttr tracks, per sub-proof index, whether a requested-attribute
// referent was revealed.
type referentAttr struct {
	revealed bool
}

func indexRequestedProof(presentation *types.Presentation) (map[int]map[string]referentAttr, map[int]map[string]bool) {
	attrs := make(map[int]map[string]referentAttr)
	predicates := make(map[int]map[string]bool)

	ensureAttr := func(idx int) map[string]referentAttr {
		if attrs[idx] == nil {
			attrs[idx] = make(map[string]referentAttr)
		}
		return attrs[idx]
	}

	for referent, info := range presentation.RequestedProof.RevealedAttrs {
		ensureAttr(info.SubProofIndex)[referent] = referentAttr{revealed: true}
	}
	for referent, info := range presentation.RequestedProof.RevealedAttrGroups {
		ensureAttr(info.SubProofIndex)[referent] = referentAttr{revealed: true}
	}
	for referent, info := range presentation.RequestedProof.UnrevealedAttrs {
		ensureAttr(info.SubProofIndex)[referent] = referentAttr{revealed: false}
	}
	for referent, info := range presentation.RequestedProof.Predicates {
		if predicates[info.SubProofIndex] == nil {
			predicates[info.SubProofIndex] = make(map[string]bool)
		}
		predicates[info.SubProofIndex][referent] = true
	}
	return attrs, predicates
}

// checkReferentPartition verifies the union of requestedProof referents
// matches presReq's declared referents exactly.
func checkReferentPartition(presentation *types.Presentation, presReq *types.PresentationRequest) error {
	covered := make(map[string]bool)
	for referent := range presentation.RequestedProof.RevealedAttrs {
		covered[referent] = true
	}
	for referent := range presentation.RequestedProof.RevealedAttrGroups {
		covered[referent] = true
	}
	for referent := range presentation.RequestedProof.UnrevealedAttrs {
		covered[referent] = true
	}
	for referent := range presentation.RequestedProof.SelfAttestedAttrs {
		covered[referent] = true
	}
	for referent := range presReq.RequestedAttributes {
		if !covered[referent] {
			return apperr.New(apperr.Input, "presentation request attribute referent %q is unanswered", referent)
		}
	}
	for referent := range covered {
		if _, ok := presReq.RequestedAttributes[referent]; !ok {
			if _, ok := presentation.RequestedProof.SelfAttestedAttrs[referent]; !ok {
				return apperr.New(apperr.Input, "presentation answers unknown attribute referent %q", referent)
			}
		}
	}

	predicateCovered := make(map[string]bool)
	for referent := range presentation.RequestedProof.Predicates {
		predicateCovered[referent] = true
	}
	for referent := range presReq.RequestedPredicates {
		if !predicateCovered[referent] {
			return apperr.New(apperr.Input, "presentation request predicate referent %q is unanswered", referent)
		}
	}
	for referent := range predicateCovered {
		if _, ok := presReq.RequestedPredicates[referent]; !ok {
			return apperr.New(apperr.Input, "presentation answers unknown predicate referent %q", referent)
		}
	}
	return nil
}

func reconstructSubProofRequest(presReq *types.PresentationRequest, attrReferents map[string]referentAttr, predReferents map[string]bool) ([]string, []clprimitive.PredicateRequest, error) {
	var revealedNames []string
	for referent, ra := range attrReferents {
		if !ra.revealed {
			continue
		}
		attrInfo, ok := presReq.RequestedAttributes[referent]
		if !ok {
			return nil, nil, apperr.New(apperr.Input, "presentation request has no requested attribute %q", referent)
		}
		if attrInfo.Name != "" {
			revealedNames = append(revealedNames, types.AttrCommonView(attrInfo.Name))
		} else {
			for _, name := range attrInfo.Names {
				revealedNames = append(revealedNames, types.AttrCommonView(name))
			}
		}
	}

	var predicateReqs []clprimitive.PredicateRequest
	for referent := range predReferents {
		predInfo, ok := presReq.RequestedPredicates[referent]
		if !ok {
			return nil, nil, apperr.New(apperr.Input, "presentation request has no requested predicate %q", referent)
		}
		predicateReqs = append(predicateReqs, clprimitive.PredicateRequest{
			AttrName: types.AttrCommonView(predInfo.Name),
			PType:    predInfo.PType,
			PValue:   predInfo.PValue,
		})
	}
	return revealedNames, predicateReqs, nil
}

// checkAttributeConsistency verifies every revealed value's claimed
// encoded integer in requestedProof matches the value the aggregate proof
// actually discloses for that sub-proof.
func checkAttributeConsistency(presentation *types.Presentation, presReq *types.PresentationRequest, subProofIndex int, attrReferents map[string]referentAttr) (bool, error) {
	sp := presentation.Proof.SubProofs[subProofIndex]
	for referent, ra := range attrReferents {
		if !ra.revealed {
			continue
		}
		attrInfo, ok := presReq.RequestedAttributes[referent]
		if !ok {
			return false, apperr.New(apperr.Input, "presentation request has no requested attribute %q", referent)
		}
		if attrInfo.Name != "" {
			info, ok := presentation.RequestedProof.RevealedAttrs[referent]
			if !ok {
				return false, nil
			}
			if !matchesDisclosed(sp, types.AttrCommonView(attrInfo.Name), info.Encoded) {
				return false, nil
			}
			continue
		}
		group, ok := presentation.RequestedProof.RevealedAttrGroups[referent]
		if !ok {
			return false, nil
		}
		for _, name := range attrInfo.Names {
			val, ok := group.Values[name]
			if !ok {
				return false, nil
			}
			if !matchesDisclosed(sp, types.AttrCommonView(name), val.Encoded) {
				return false, nil
			}
		}
	}
	return true, nil
}

func matchesDisclosed(sp clprimitive.SubProof, normalizedName, encodedDecimal string) bool {
	claimed, ok := new(big.Int).SetString(encodedDecimal, 10)
	if !ok {
		return false
	}
	actual, ok := sp.RevealedAttrs[normalizedName]
	if !ok {
		return false
	}
	return actual.Cmp(claimed) == 0
}

func lookupSchema(schemas map[types.SchemaId]*types.Schema, id types.SchemaId, qualified bool) (*types.Schema, error) {
	if !qualified {
		id = id.ToUnqualified()
	}
	schema, ok := schemas[id]
	if !ok {
		return nil, apperr.New(apperr.Input, "presentation references unknown schema %q", string(id))
	}
	return schema, nil
}

func lookupCredDef(credDefs map[types.CredentialDefinitionId]*types.CredentialDefinition, id types.CredentialDefinitionId, qualified bool) (*types.CredentialDefinition, error) {
	if !qualified {
		id = id.ToUnqualified()
	}
	credDef, ok := credDefs[id]
	if !ok {
		return nil, apperr.New(apperr.Input, "presentation references unknown credential definition %q", string(id))
	}
	return credDef, nil
}

func lookupRevReg(revRegs map[types.RevocationRegistryId]RevRegByTimestamp, id types.RevocationRegistryId, timestamp int64, acceptLegacy bool) (*types.RevocationRegistry, bool) {
	if byTs, ok := revRegs[id]; ok {
		if reg, ok := byTs[timestamp]; ok {
			return reg, true
		}
	}
	if acceptLegacy {
		if byTs, ok := revRegs[id.ToUnqualified()]; ok {
			if reg, ok := byTs[timestamp]; ok {
				return reg, true
			}
		}
	}
	return nil, false
}

func hiddenAttributeNames(credDef *types.CredentialDefinition, revealedNames []string) []string {
	revealedSet := make(map[string]bool, len(revealedNames))
	for _, n := range revealedNames {
		revealedSet[n] = true
	}
	var hidden []string
	for _, name := range credDef.Value.Primary.AttrOrder {
		if !revealedSet[name] {
			hidden = append(hidden, name)
		}
	}
	return hidden
}

func requiresNonRevoked(presReq *types.PresentationRequest, attrReferents map[string]referentAttr, predReferents map[string]bool) bool {
	if presReq.NonRevoked != nil {
		return true
	}
	for referent := range attrReferents {
		if info, ok := presReq.RequestedAttributes[referent]; ok && info.NonRevoked != nil {
			return true
		}
	}
	for referent := range predReferents {
		if info, ok := presReq.RequestedPredicates[referent]; ok && info.NonRevoked != nil {
			return true
		}
	}
	return false
}
