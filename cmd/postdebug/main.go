// postproof: Proof-of-Space-Time prover and verifier
// Copyright (C) 2026  Guillermo Perry
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hkdf-labs/postproof/internal/difficulty"
	"github.com/hkdf-labs/postproof/internal/hostinfo"
	"github.com/hkdf-labs/postproof/internal/postlog"
	"github.com/hkdf-labs/postproof/pkg/config"
	"github.com/hkdf-labs/postproof/pkg/initialize"
	"github.com/hkdf-labs/postproof/pkg/initialize/accelerator"
	"github.com/hkdf-labs/postproof/pkg/kdf"
	"github.com/hkdf-labs/postproof/pkg/metadata"
	"github.com/hkdf-labs/postproof/pkg/postio"
	"github.com/hkdf-labs/postproof/pkg/pow"
	"github.com/hkdf-labs/postproof/pkg/prove"
	"github.com/hkdf-labs/postproof/pkg/verify"
)

// CLI flags use flag.Bool/flag.Uint64 at package scope, scaled down to
// this command's single init -> prove -> verify demonstration run.
var (
	labelsPerUnit = flag.Uint64("labels-per-unit", 2000, "labels per unit for the demo plot")
	numUnits      = flag.Uint("num-units", 2, "number of units to initialize")
	k1            = flag.Uint64("k1", 20, "expected passing labels per nonce")
	k2            = flag.Uint64("k2", 30, "labels required in the proof")
	k3            = flag.Uint64("k3", 30, "verifier sub-sample size")
	showHostInfo  = flag.Bool("hostinfo", true, "print host capability summary before running")
)

func main() {
	flag.Parse()

	if *showHostInfo {
		fmt.Print(hostinfo.Probe().Summary())
		fmt.Println()
	}

	ctx := context.Background()
	log := postlog.Default

	nodeID := [32]byte{0x01}
	atxID := [32]byte{0x02}
	commitment := postio.Commitment(nodeID, atxID)
	numLabels := postio.NumLabels(uint32(*numUnits), *labelsPerUnit)

	cfg := config.Config{
		K1:              *k1,
		K2:              *k2,
		K3:              *k3,
		K2PowDifficulty: 1 << 40,
		PowDifficulty:   [32]byte{0x0F, 0x0F, 0x0F, 0x0F},
		PowScrypt:       kdf.New(2, 0, 0),
		Scrypt:          kdf.New(1, 0, 0),
	}

	vrfDifficulty, err := difficulty.Scale(cfg.PowDifficulty, uint32(*numUnits))
	if err != nil {
		log.Error("scale vrf difficulty failed", "err", err)
		os.Exit(1)
	}

	log.Info("initializing labels", "num_labels", numLabels, "commitment", fmt.Sprintf("%x", commitment))

	backend, report := initialize.SelectBackend(accelerator.GetDeviceCount, cfg.Scrypt, func(deviceID int) initialize.Backend {
		return accelerator.NewBackend(deviceID, uint32(cfg.Scrypt.N()), 0)
	})
	log.Info("label backend selected", "backend", report.Selected, "accelerator_count", report.AcceleratorCount)

	start := time.Now()
	labels := make([]byte, numLabels*postio.LabelSize)
	vrfNonce, err := backend.Generate(ctx, commitment, 0, numLabels, &vrfDifficulty, labels)
	if err != nil {
		log.Error("initialize failed", "err", err)
		os.Exit(1)
	}
	log.Info("initialize complete", "elapsed", time.Since(start))
	if vrfNonce != nil {
		log.Info("vrf nonce found", "index", vrfNonce.Index)
	}

	challenge := [32]byte{}
	copy(challenge[:], []byte("hello world, challenge me!!!!!!!"))

	powImpl := pow.New()

	start = time.Now()
	proof, err := prove.Prove(ctx, memSource{labels}, numLabels, challenge, cfg, powImpl, nodeID, prove.Options{})
	if err != nil {
		log.Error("prove failed", "err", err)
		os.Exit(1)
	}
	log.Info("prove complete", "elapsed", time.Since(start), "nonce", proof.Nonce, "indices", len(proof.Indices))

	md := metadata.ProofMetadata{
		NodeID:          nodeID,
		CommitmentAtxID: atxID,
		Challenge:       challenge,
		NumUnits:        uint32(*numUnits),
		LabelsPerUnit:   *labelsPerUnit,
	}

	if err := verify.Verify(proof, md, cfg, powImpl); err != nil {
		log.Error("verify rejected the proof", "err", err)
		os.Exit(1)
	}
	log.Info("verify accepted the proof")

	wire := proof.Encode()
	log.Info("encoded proof", "bytes", len(wire))
}

type memSource struct{ labels []byte }

func (m memSource) ReadLabel(i uint64, out []byte) error {
	off := i * postio.LabelSize
	copy(out, m.labels[off:off+postio.LabelSize])
	return nil
}
