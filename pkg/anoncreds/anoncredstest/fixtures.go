// Package anoncredstest provides test-only fixture helpers that stand up
// a minimal issuer/prover pairing, mirroring the role indy-credx's own
// tests/utils module plays for its test suite. Not part of the core; only
// imported from _test.go files.
package anoncredstest

import (
	"anoncreds/pkg/anoncreds/clprimitive"
	"anoncreds/pkg/anoncreds/issuer"
	"anoncreds/pkg/anoncreds/prover"
	"anoncreds/pkg/anoncreds/types"
	"anoncreds/pkg/anoncreds/verifier"
	"anoncreds/pkg/logger"
)

// IssuerDid and ProverDid are the fixed DIDs fixtures use for every test
// issuance, unqualified for brevity.
const (
	IssuerDid = types.DidValue("UcqYWTQpk3QA3Ow7YNbbh1")
	ProverDid = types.DidValue("VsKV7grR1BUE29mG2Fm2kX")
)

// IssuerWallet bundles everything an issuer fixture needs to sign
// credentials against one schema/cred-def pair.
type IssuerWallet struct {
	Service        *issuer.Service
	Schema         *types.Schema
	CredDef        *types.CredentialDefinition
	CredDefPrivate *types.CredentialDefinitionPrivate
	CorrectnessProof *types.CredentialKeyCorrectnessProof
}

// NewIssuerWallet builds a schema with attrNames and a non-revocable
// credential definition over it.
func NewIssuerWallet(attrNames []string) (*IssuerWallet, error) {
	cl := clprimitive.New()
	log := logger.NewSimple("anoncredstest")
	svc := issuer.New(cl, log)

	schema, err := svc.CreateSchema(IssuerDid, "test", "1.0", attrNames, false)
	if err != nil {
		return nil, err
	}
	result, err := svc.CreateCredentialDefinition(IssuerDid, schema, "tag", types.SignatureTypeCL, false, false)
	if err != nil {
		return nil, err
	}
	return &IssuerWallet{
		Service:          svc,
		Schema:           schema,
		CredDef:          result.CredDef,
		CredDefPrivate:   result.CredDefPrivate,
		CorrectnessProof: result.KeyCorrectnessProof,
	}, nil
}

// ProverWallet bundles a prover service and its link secret.
type ProverWallet struct {
	Service    *prover.Service
	LinkSecret *types.LinkSecret
}

func NewProverWallet() (*ProverWallet, error) {
	cl := clprimitive.New()
	log := logger.NewSimple("anoncredstest")
	svc := prover.New(cl, log)
	ls, err := svc.CreateLinkSecret()
	if err != nil {
		return nil, err
	}
	return &ProverWallet{Service: svc, LinkSecret: ls}, nil
}

// VerifierService builds a verifier.Service fixture.
func VerifierService() *verifier.Service {
	return verifier.New(clprimitive.New(), logger.NewSimple("anoncredstest"))
}

// IssueCredential runs the full offer/request/sign/process round trip for
// values (already in {raw, encoded} form) and returns the processed
// credential ready for presentation.
func IssueCredential(iw *IssuerWallet, pw *ProverWallet, values types.CredentialValues) (*types.Credential, error) {
	offer, err := iw.Service.CreateCredentialOffer(iw.Schema.Id, iw.CredDef.Id, iw.CorrectnessProof)
	if err != nil {
		return nil, err
	}
	req, meta, err := pw.Service.CreateCredentialRequest(ProverDid, "main", pw.LinkSecret, iw.CredDef, offer)
	if err != nil {
		return nil, err
	}
	cred, _, err := iw.Service.CreateCredential(iw.CredDef, iw.CredDefPrivate, offer, req, iw.Schema, values, nil)
	if err != nil {
		return nil, err
	}
	if err := pw.Service.ProcessCredential(cred, meta, pw.LinkSecret, iw.CredDef, iw.Schema); err != nil {
		return nil, err
	}
	return cred, nil
}
