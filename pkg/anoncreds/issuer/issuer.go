// Package issuer implements the issuer-side operations of the
// credential protocol: schema and credential-definition creation,
// credential offers and signing, and revocation-registry lifecycle.
package issuer

import (
	"math/big"

	"anoncreds/pkg/anoncreds/apperr"
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/tails"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/logger"
)

// Service implements the issuer-side operations over a CL primitive
// provider.
type Service struct {
	cl  clprimitive.Provider
	log *logger.Log
}

// New builds an issuer Service backed by cl.
func New(cl clprimitive.Provider, log *logger.Log) *Service {
	return &Service{cl: cl, log: log.New("issuer")}
}

// CreateSchema validates attrNames and builds a freshly identified Schema.
func (s *Service) CreateSchema(originDid types.DidValue, name, version string, attrNames []string, qualified bool) (*types.Schema, error) {
	schema, err := types.NewSchema(originDid, name, version, attrNames, qualified)
	if err != nil {
		return nil, err
	}
	s.log.Debug("created schema", "schemaId", string(schema.Id))
	return schema, nil
}

// CreateCredentialDefinitionResult bundles a credential definition with
// its private key and key-correctness proof.
type CreateCredentialDefinitionResult struct {
	CredDef            *types.CredentialDefinition
	CredDefPrivate     *types.CredentialDefinitionPrivate
	KeyCorrectnessProof *types.CredentialKeyCorrectnessProof
}

// CreateCredentialDefinition derives a fresh CL signing key for schema's
// attributes (plus the implicit master_secret) and, if supportRevocation,
// a revocation accumulator keypair.
func (s *Service) CreateCredentialDefinition(originDid types.DidValue, schema *types.Schema, tag string, sigType types.SignatureType, supportRevocation bool, qualified bool) (*CreateCredentialDefinitionResult, error) {
	if err := originDid.Validate(); err != nil {
		return nil, err
	}
	if err := sigType.Validate(); err != nil {
		return nil, err
	}
	tag = types.DeriveCredentialDefinitionTag(tag, schema.Name)

	pub, priv, kcp, err := s.cl.GenerateCredentialDefinitionKeys(schema.AttrNames)
	if err != nil {
		return nil, err
	}

	value := types.CredentialDefinitionValue{Primary: pub}
	if supportRevocation {
		revPub, _, err := s.cl.GenerateRevocationKeys([]byte(schema.Id))
		if err != nil {
			return nil, err
		}
		value.Revocation = revPub
	}

	schemaIdOrSeqNo := string(schema.Id)
	if schema.SeqNo != nil {
		schemaIdOrSeqNo = big.NewInt(*schema.SeqNo).String()
	}
	credDefId := types.NewCredentialDefinitionId(originDid, schemaIdOrSeqNo, tag, qualified)

	credDef := &types.CredentialDefinition{
		Ver:           types.CredentialDefinitionVersion1,
		Id:            credDefId,
		SchemaId:      schema.Id,
		SignatureType: sigType,
		Tag:           tag,
		Value:         value,
	}

	s.log.Debug("created credential definition", "credDefId", string(credDefId))
	return &CreateCredentialDefinitionResult{
		CredDef:             credDef,
		CredDefPrivate:      &types.CredentialDefinitionPrivate{Value: priv},
		KeyCorrectnessProof: &types.CredentialKeyCorrectnessProof{Value: kcp},
	}, nil
}

// CreateCredentialOffer builds a fresh offer for schemaId/credDefId.
func (s *Service) CreateCredentialOffer(schemaId types.SchemaId, credDefId types.CredentialDefinitionId, correctnessProof *types.CredentialKeyCorrectnessProof) (*types.CredentialOffer, error) {
	return types.NewCredentialOffer(schemaId, credDefId, correctnessProof)
}

// RevocationConfig supplies the artifacts needed to bind a freshly issued
// credential to a revocation registry slot.
type RevocationConfig struct {
	RevRegDef     *types.RevocationRegistryDefinition
	RevRegDefPriv *types.RevocationRegistryDefinitionPrivate
	RevReg        *types.RevocationRegistry
	Delta         *types.RevocationRegistryDelta
	CredRevIdx    uint32
}

// CreateCredential validates attributes against schema, signs them under
// credDef, and, when revocationConfig is set, reserves a registry index
// and returns the updated delta.
func (s *Service) CreateCredential(credDef *types.CredentialDefinition, credDefPrivate *types.CredentialDefinitionPrivate, offer *types.CredentialOffer, request *types.CredentialRequest, schema *types.Schema, attributes types.CredentialValues, revocationConfig *RevocationConfig) (*types.Credential, *types.RevocationRegistryDelta, error) {
	for _, declared := range schema.AttrNames {
		if _, ok := attributes.Lookup(declared); !ok {
			return nil, nil, apperr.New(apperr.Input, "credential is missing schema attribute %q", declared)
		}
	}
	if len(attributes) != len(schema.AttrNames) {
		return nil, nil, apperr.New(apperr.Input, "credential carries attributes not declared by its schema")
	}

	clValues := make(clprimitive.CredentialValues, len(attributes)+1)
	for name, v := range attributes {
		enc, ok := new(big.Int).SetString(v.Encoded, 10)
		if !ok {
			return nil, nil, apperr.New(apperr.Input, "attribute %q has a non-integer encoded value", name)
		}
		clValues[name] = clprimitive.AttributeValue{Encoded: enc, Hidden: false}
	}

	var revIdx uint32
	var delta *types.RevocationRegistryDelta
	var revRegId *types.RevocationRegistryId
	if revocationConfig != nil {
		if err := clprimitive.ValidateIndex(revocationConfig.CredRevIdx, revocationConfig.RevRegDef.Value.MaxCredNum); err != nil {
			return nil, nil, err
		}
		if revocationConfig.Delta.Issued[revocationConfig.CredRevIdx] {
			return nil, nil, apperr.New(apperr.InvalidState, "revocation index %d already issued", revocationConfig.CredRevIdx)
		}
		revIdx = revocationConfig.CredRevIdx
		delta = &types.RevocationRegistryDelta{
			PrevAccum: revocationConfig.RevReg.Accum,
			Issued:    cloneSet(revocationConfig.Delta.Issued),
			Revoked:   cloneSet(revocationConfig.Delta.Revoked),
		}
		delta.Issued[revIdx] = true
		active := activeIndices(revocationConfig.RevRegDef.Value.MaxCredNum, delta.Issued, delta.Revoked)
		delta.Accum = s.cl.ComputeAccumulator(revocationConfig.RevRegDef.Value.PublicKeys.AccumKey, active)
		revocationConfig.RevReg.Accum = delta.Accum
		id := revocationConfig.RevRegDef.Id
		revRegId = &id
	}

	sig, correctness, err := s.cl.SignCredential(clValues, request.BlindedMs, request.BlindedMsCorrectnessProof, []string{clprimitive.MasterSecretName}, offer.Nonce.BigInt(), credDef.Value.Primary, credDefPrivate.Value, revIdx)
	if err != nil {
		return nil, nil, err
	}

	cred := &types.Credential{
		SchemaId:                  schema.Id,
		CredDefId:                 credDef.Id,
		RevRegId:                  revRegId,
		Values:                    attributes,
		Signature:                 sig,
		SignatureCorrectnessProof: correctness,
	}
	if revocationConfig != nil {
		cred.RevReg = revocationConfig.RevReg
	}

	s.log.Debug("created credential", "credDefId", string(credDef.Id), "revoked", revocationConfig != nil)
	return cred, delta, nil
}

// CreateRevocationRegistry writes a fresh tails file via writer and
// returns the registry definition, its private key, and the initial
// accumulator.
func (s *Service) CreateRevocationRegistry(originDid types.DidValue, credDef *types.CredentialDefinition, tag string, regType types.RegistryType, issuanceType types.IssuanceType, maxCredNum uint32, writer *tails.Writer, qualified bool) (*types.RevocationRegistryDefinition, *types.RevocationRegistryDefinitionPrivate, *types.RevocationRegistry, error) {
	if err := regType.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if err := issuanceType.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if !credDef.SupportsRevocation() {
		return nil, nil, nil, apperr.New(apperr.Input, "credential definition %q does not support revocation", string(credDef.Id))
	}

	revRegId := types.NewRevocationRegistryId(originDid, credDef.Id, tag, qualified)

	// The tails file's content for this construction is each slot index
	// 1..maxCredNum as 4 big-endian bytes; writing it out keeps the
	// tails_hash contract honest even though witness derivation (see
	// clprimitive) computes the slot primes itself.
	for i := uint32(1); i <= maxCredNum; i++ {
		if err := writer.Append([]byte{byte(i >> 24), byte(i >> 16), byte(i >> 8), byte(i)}); err != nil {
			return nil, nil, nil, err
		}
	}
	location, hash, err := writer.Finalize()
	if err != nil {
		return nil, nil, nil, err
	}

	accumPub, accumPriv, err := s.cl.GenerateRevocationKeys([]byte(revRegId))
	if err != nil {
		return nil, nil, nil, err
	}

	def := &types.RevocationRegistryDefinition{
		Ver:          types.RevocationRegistryDefinitionVersion1,
		Id:           revRegId,
		RevocDefType: regType,
		Tag:          tag,
		CredDefId:    credDef.Id,
		Value: types.RevocationRegistryDefinitionValue{
			IssuanceType: issuanceType,
			MaxCredNum:   maxCredNum,
			PublicKeys:   types.RevocationRegistryPublicKeys{AccumKey: accumPub},
			TailsHash:    hash,
			TailsLocation: location,
		},
	}
	accum := s.cl.InitialAccumulator(accumPub, maxCredNum, issuanceType.ToBool())

	s.log.Debug("created revocation registry", "revRegId", string(revRegId), "tailsLocation", location)
	return def, &types.RevocationRegistryDefinitionPrivate{Value: accumPriv}, &types.RevocationRegistry{Accum: accum}, nil
}

// RevokeCredential marks idx revoked in the cumulative delta, recomputing
// the accumulator. A no-op (idempotent) if idx is already revoked.
func (s *Service) RevokeCredential(def *types.RevocationRegistryDefinition, reg *types.RevocationRegistry, prevDelta *types.RevocationRegistryDelta, idx uint32) (*types.RevocationRegistry, *types.RevocationRegistryDelta, error) {
	return s.applyRevocationChange(def, reg, prevDelta, idx, true)
}

// RecoverCredential clears idx's revoked flag. A no-op (idempotent) if idx
// is not currently revoked.
func (s *Service) RecoverCredential(def *types.RevocationRegistryDefinition, reg *types.RevocationRegistry, prevDelta *types.RevocationRegistryDelta, idx uint32) (*types.RevocationRegistry, *types.RevocationRegistryDelta, error) {
	return s.applyRevocationChange(def, reg, prevDelta, idx, false)
}

func (s *Service) applyRevocationChange(def *types.RevocationRegistryDefinition, reg *types.RevocationRegistry, prevDelta *types.RevocationRegistryDelta, idx uint32, revoked bool) (*types.RevocationRegistry, *types.RevocationRegistryDelta, error) {
	if err := clprimitive.ValidateIndex(idx, def.Value.MaxCredNum); err != nil {
		return nil, nil, err
	}
	issued := cloneSet(prevDelta.Issued)
	revokedSet := cloneSet(prevDelta.Revoked)

	if revokedSet[idx] == revoked {
		return reg, &types.RevocationRegistryDelta{PrevAccum: reg.Accum, Accum: reg.Accum, Issued: issued, Revoked: revokedSet}, nil
	}
	revokedSet[idx] = revoked

	active := activeIndices(def.Value.MaxCredNum, issued, revokedSet)
	newAccum := s.cl.ComputeAccumulator(def.Value.PublicKeys.AccumKey, active)
	delta := &types.RevocationRegistryDelta{PrevAccum: reg.Accum, Accum: newAccum, Issued: issued, Revoked: revokedSet}
	reg.Accum = newAccum
	return reg, delta, nil
}

func cloneSet(m map[uint32]bool) map[uint32]bool {
	out := make(map[uint32]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func activeIndices(maxCredNum uint32, issued, revoked map[uint32]bool) []uint32 {
	active := make([]uint32, 0, maxCredNum)
	for i := uint32(1); i <= maxCredNum; i++ {
		if issued[i] && !revoked[i] {
			active = append(active, i)
		}
	}
	return active
}
