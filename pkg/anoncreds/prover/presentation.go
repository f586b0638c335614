package prover

import (
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/types"
)

// PresentCredentialEntry names one credential contributing to a
// presentation: which requested-attribute referents it answers (and
// whether each is revealed), which requested-predicate referents it
// answers, and, for a revocable credential, the revocation state to prove
// non-revocation against.
type PresentCredentialEntry struct {
	Credential          *types.Credential
	Timestamp           *int64
	RevState            *types.CredentialRevocationState
	RequestedAttributes map[string]bool // referent -> reveal
	RequestedPredicates map[string]bool // referent -> included
}

// PresentCredentials is the ordered set of credential entries a
// presentation draws from.
type PresentCredentials []*PresentCredentialEntry

// Validate enforces that no requested-attribute or requested-predicate
// referent appears more than once across the whole collection.
func (pcs PresentCredentials) Validate() error {
	seen := make(map[string]bool)
	for _, e := range pcs {
		for referent := range e.RequestedAttributes {
			if seen[referent] {
				return apperr.New(apperr.Input, "referent %q claimed by more than one credential", referent)
			}
			seen[referent] = true
		}
		for referent := range e.RequestedPredicates {
			if seen[referent] {
				return apperr.New(apperr.Input, "referent %q claimed by more than one credential", referent)
			}
			seen[referent] = true
		}
	}
	return nil
}

func (e *PresentCredentialEntry) empty() bool {
	return len(e.RequestedAttributes) == 0 && len(e.RequestedPredicates) == 0
}

// CreatePresentation builds a Presentation answering presReq from
// credentials and selfAttested, binding every credential's sub-proof to
// linkSecret as the shared common attribute.
func (s *Service) CreatePresentation(
	presReq *types.PresentationRequest,
	credentials PresentCredentials,
	selfAttested map[string]string,
	linkSecret *types.LinkSecret,
	schemas map[types.SchemaId]*types.Schema,
	credDefs map[types.CredentialDefinitionId]*types.CredentialDefinition,
) (*types.Presentation, error) {
	if len(credentials) == 0 && len(selfAttested) == 0 {
		return nil, apperr.New(apperr.Input, "presentation has neither credentials nor self-attested attributes")
	}
	if err := credentials.Validate(); err != nil {
		return nil, err
	}

	builder := s.cl.NewProofBuilder()
	requestedProof := types.NewRequestedProof()
	var identifiers []types.Identifier
	haveCommonAttribute := false

	for _, entry := range credentials {
		if entry.empty() {
			continue
		}

		cred := entry.Credential
		schema, ok := schemas[cred.SchemaId]
		if !ok {
			return nil, apperr.New(apperr.Input, "presentation references unknown schema %q", string(cred.SchemaId))
		}
		credDef, ok := credDefs[cred.CredDefId]
		if !ok {
			return nil, apperr.New(apperr.Input, "presentation references unknown credential definition %q", string(cred.CredDefId))
		}

		if !haveCommonAttribute {
			if err := builder.AddCommonAttribute(clprimitive.MasterSecretName); err != nil {
				return nil, err
			}
			haveCommonAttribute = true
		}

		clValues, err := credentialCLValues(cred, linkSecret)
		if err != nil {
			return nil, err
		}

		subProofIndex := len(identifiers)

		subProofReq, err := s.buildSubProofRequest(presReq, entry)
		if err != nil {
			return nil, err
		}

		revealed := make(map[string]bool, len(subProofReq.RevealedAttrs))
		for _, name := range subProofReq.RevealedAttrs {
			revealed[name] = true
		}
		for name, v := range clValues {
			if !revealed[name] {
				v.Hidden = true
				clValues[name] = v
			}
		}

		var revEntry *clprimitive.RevocationEntry
		if entry.RevState != nil {
			revEntry = &clprimitive.RevocationEntry{
				Pub:     credDef.Value.Revocation,
				Witness: entry.RevState.Witness,
				Accum:   entry.RevState.RevReg.Accum,
			}
		}

		if err := builder.AddSubProofRequest(subProofReq, cred.Signature, credDef.Value.Primary, clValues, revEntry); err != nil {
			return nil, err
		}

		ident := types.Identifier{SchemaId: schema.Id, CredDefId: credDef.Id, Timestamp: entry.Timestamp}
		if cred.RevRegId != nil {
			revRegId := *cred.RevRegId
			ident.RevRegId = &revRegId
		}
		if presReq.RequestVersion == types.PresentationRequestV1 {
			ident.SchemaId = ident.SchemaId.ToUnqualified()
			ident.CredDefId = ident.CredDefId.ToUnqualified()
			if ident.RevRegId != nil {
				unq := ident.RevRegId.ToUnqualified()
				ident.RevRegId = &unq
			}
		}
		identifiers = append(identifiers, ident)

		if err := s.updateRequestedProof(&requestedProof, presReq, entry, cred, subProofIndex); err != nil {
			return nil, err
		}
	}

	if selfAttested != nil {
		for name, raw := range selfAttested {
			requestedProof.SelfAttestedAttrs[name] = raw
		}
	}

	proof, err := builder.Finalize(presReq.Nonce.BigInt())
	if err != nil {
		return nil, err
	}

	s.log.Debug("created presentation", "subProofCount", len(identifiers))
	return &types.Presentation{Proof: proof, RequestedProof: requestedProof, Identifiers: identifiers}, nil
}

func credentialCLValues(cred *types.Credential, linkSecret *types.LinkSecret) (clprimitive.CredentialValues, error) {
	values := make(clprimitive.CredentialValues, len(cred.Values)+1)
	for name, v := range cred.Values {
		enc, ok := new(big.Int).SetString(v.Encoded, 10)
		if !ok {
			return nil, apperr.New(apperr.Input, "attribute %q has a non-integer encoded value", name)
		}
		values[name] = clprimitive.AttributeValue{Encoded: enc, Hidden: false}
	}
	values[clprimitive.MasterSecretName] = clprimitive.AttributeValue{Encoded: linkSecret.Value(), Hidden: true}
	return values, nil
}

func (s *Service) buildSubProofRequest(presReq *types.PresentationRequest, entry *PresentCredentialEntry) (*clprimitive.SubProofRequest, error) {
	b := s.cl.NewSubProofRequestBuilder()
	for referent, reveal := range entry.RequestedAttributes {
		if !reveal {
			continue
		}
		attrInfo, ok := presReq.RequestedAttributes[referent]
		if !ok {
			return nil, apperr.New(apperr.Input, "presentation request has no requested attribute %q", referent)
		}
		if attrInfo.Name != "" {
			b.AddRevealedAttr(types.AttrCommonView(attrInfo.Name))
		} else {
			for _, name := range attrInfo.Names {
				b.AddRevealedAttr(types.AttrCommonView(name))
			}
		}
	}
	for referent, included := range entry.RequestedPredicates {
		if !included {
			continue
		}
		predInfo, ok := presReq.RequestedPredicates[referent]
		if !ok {
			return nil, apperr.New(apperr.Input, "presentation request has no requested predicate %q", referent)
		}
		b.AddPredicate(types.AttrCommonView(predInfo.Name), predInfo.PType, predInfo.PValue)
	}
	return b.Finalize()
}

func (s *Service) updateRequestedProof(rp *types.RequestedProof, presReq *types.PresentationRequest, entry *PresentCredentialEntry, cred *types.Credential, subProofIndex int) error {
	for referent, reveal := range entry.RequestedAttributes {
		attrInfo, ok := presReq.RequestedAttributes[referent]
		if !ok {
			return apperr.New(apperr.Input, "presentation request has no requested attribute %q", referent)
		}
		if !reveal {
			rp.UnrevealedAttrs[referent] = types.UnrevealedAttrInfo{SubProofIndex: subProofIndex}
			continue
		}
		if attrInfo.Name != "" {
			val, ok := cred.Values.Lookup(attrInfo.Name)
			if !ok {
				return apperr.New(apperr.Input, "credential does not carry requested attribute %q", attrInfo.Name)
			}
			rp.RevealedAttrs[referent] = types.RevealedAttrInfo{SubProofIndex: subProofIndex, Raw: val.Raw, Encoded: val.Encoded}
			continue
		}
		group := make(map[string]types.AttributeValue, len(attrInfo.Names))
		for _, name := range attrInfo.Names {
			val, ok := cred.Values.Lookup(name)
			if !ok {
				return apperr.New(apperr.Input, "credential does not carry requested attribute %q", name)
			}
			group[name] = val
		}
		rp.RevealedAttrGroups[referent] = types.RevealedAttrGroupInfo{SubProofIndex: subProofIndex, Values: group}
	}
	for referent, included := range entry.RequestedPredicates {
		if !included {
			continue
		}
		rp.Predicates[referent] = types.PredicateInfoProof{SubProofIndex: subProofIndex}
	}
	return nil
}
