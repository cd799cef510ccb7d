// Copyright (c) 2026 - for information on the respective copyright owner
// see the NOTICE file and/or the repository https://github.com/carbynestack/sharecodec.
//
// SPDX-License-Identifier: Apache-2.0
package types

// SharingConfig is the configuration of a share generation session as read from the config file.
type SharingConfig struct {
	Dataset        string   `json:"dataset" valid:"required"`
	OutputDir      string   `json:"outputDir"`
	Mode           string   `json:"mode" valid:"in(shares|mac|vertical)"`
	Modulus        string   `json:"modulus"`
	Scale          string   `json:"scale"`
	Parties        int      `json:"parties"`
	TestSize       *float64 `json:"testSize"`
	Seed           *int64   `json:"seed"`
	Randomness     string   `json:"randomness" valid:"in(crypto|chacha20|blake2b)"`
	StrictOverflow bool     `json:"strictOverflow"`
	Production     bool     `json:"production"`
}

// EvaluationConfig is the configuration of the reconstruction of engine outputs as read from the config file.
type EvaluationConfig struct {
	Dir         string   `json:"dir" valid:"required"`
	Mode        string   `json:"mode" valid:"in(shares|mac|vertical)"`
	Modulus     string   `json:"modulus"`
	Scale       string   `json:"scale"`
	Parties     int      `json:"parties"`
	Predictions []string `json:"predictions"`
	LabelSplit  *int     `json:"labelSplit"`
	// Binary selects the engine's raw binary output format. Field outputs additionally need RInv.
	Binary bool   `json:"binary"`
	RInv   string `json:"rInv"`
	// Audit verifies the MAC tags of both splits before evaluating, mac mode only.
	Audit      bool `json:"audit"`
	Production bool `json:"production"`
}

// MetadataConfig is the configuration of an orchestrator side metadata update.
type MetadataConfig struct {
	Path      string `json:"path" valid:"required"`
	BatchSize int    `json:"batchSize"`
	Epochs    int    `json:"epochs"`
}
