// Package certificate renders a completed verification into the
// certificate document consumed by the presentation layer. The layout
// is fixed; renderers depend on every key being present.
package certificate

import (
	"time"

	"github.com/attestia/zkattest/history"
	"github.com/attestia/zkattest/verify"
)

const (
	title  = "Certificat de Vérification Zero-Knowledge"
	method = "Preuve Groth16 sur BN254, empreintes MiMC, registre de révocation Merkle"

	legal = "Ce certificat atteste qu'une preuve à divulgation nulle de connaissance " +
		"a été générée et vérifiée pour l'affirmation ci-dessus. Démonstrateur " +
		"technique, sans valeur juridique."

	// validityPeriod is how long a certificate presents as current
	// before the holder should re-verify.
	validityPeriod = 365 * 24 * time.Hour
)

type ValidatedAffirmation struct {
	Statement   string  `json:"statement"`
	Confidence  float64 `json:"confidence"`
	ZKProofHash string  `json:"zkProofHash"`
}

type RevocationStatus struct {
	IsRevoked      bool   `json:"isRevoked"`
	RevocationRoot string `json:"revocationRoot"`
	LastCheckedAt  string `json:"lastCheckedAt"`
}

type VerificationHistory struct {
	TotalVerifications int    `json:"totalVerifications"`
	LastVerification   string `json:"lastVerification"`
}

// Certificate is the complete certificate document.
type Certificate struct {
	Title                  string               `json:"title"`
	Date                   string               `json:"date"`
	OriginalDocument       string               `json:"originalDocument"`
	Query                  string               `json:"query"`
	ValidatedAffirmation   ValidatedAffirmation `json:"validatedAffirmation"`
	BlockchainTransactions []string             `json:"blockchainTransactions"`
	RevocationStatus       RevocationStatus     `json:"revocationStatus"`
	VerificationHistory    VerificationHistory  `json:"verificationHistory"`
	VerificationMethod     string               `json:"verificationMethod"`
	VerificationDate       string               `json:"verificationDate"`
	ValidUntil             string               `json:"validUntil"`
	LegalValidity          string               `json:"legalValidity"`
}

// Build assembles the certificate for a recorded verification.
// records is the document's full history, most recent last; confidence
// is the upstream extraction confidence in [0,1].
func Build(req verify.Request, out verify.Outcome, records []history.Record, confidence float64, now time.Time) Certificate {
	lastVerification := ""
	if len(records) > 0 {
		lastVerification = time.Unix(records[len(records)-1].Timestamp, 0).UTC().Format(time.RFC3339)
	}

	return Certificate{
		Title:            title,
		Date:             now.Format("02/01/2006"),
		OriginalDocument: req.Document.Name,
		Query:            req.Query,
		ValidatedAffirmation: ValidatedAffirmation{
			Statement:   out.Statement,
			Confidence:  confidence,
			ZKProofHash: out.ProofHash,
		},
		// No chain anchoring; the list stays present and empty so
		// renderers need no null checks.
		BlockchainTransactions: []string{},
		RevocationStatus: RevocationStatus{
			IsRevoked:      out.IsRevoked,
			RevocationRoot: out.RevocationRoot,
			LastCheckedAt:  now.UTC().Format(time.RFC3339),
		},
		VerificationHistory: VerificationHistory{
			TotalVerifications: len(records),
			LastVerification:   lastVerification,
		},
		VerificationMethod: method,
		VerificationDate:   now.UTC().Format(time.RFC3339),
		ValidUntil:         now.Add(validityPeriod).Format("02/01/2006"),
		LegalValidity:      legal,
	}
}
