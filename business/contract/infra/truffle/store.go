// Package truffle loads Truffle build artifacts from disk, falling back to the
// artifacts embedded in the binary.
package truffle

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/casino-dapp/business/contract/domain"
	wallet "github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/logger"
)

//go:embed artifacts/*.json
var embedded embed.FS

// artifactFile is the subset of a Truffle build artifact the client reads.
type artifactFile struct {
	ContractName string                  `json:"contractName"`
	ABI          json.RawMessage         `json:"abi"`
	Interface    json.RawMessage         `json:"interface"`
	Networks     map[string]networkEntry `json:"networks"`
}

type networkEntry struct {
	Address string `json:"address"`
}

// Store reads artifacts by contract name. Parsed artifacts are memoized.
type Store struct {
	dir    string
	logger logger.LoggerInterface

	mu    sync.Mutex
	cache map[string]*domain.ContractArtifact
}

// NewStore creates a store reading dir first. An empty dir uses only the
// embedded artifacts.
func NewStore(dir string, log logger.LoggerInterface) *Store {
	return &Store{
		dir:    dir,
		logger: log,
		cache:  make(map[string]*domain.ContractArtifact),
	}
}

// Load returns the artifact for contract name.
func (s *Store) Load(name string) (*domain.ContractArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.cache[name]; ok {
		return a, nil
	}

	raw, source, err := s.read(name)
	if err != nil {
		return nil, err
	}

	a, err := parse(name, raw)
	if err != nil {
		return nil, err
	}

	s.cache[name] = a
	s.logger.Debug(context.Background(), "artifact loaded",
		"contract", name, "source", source, "networks", len(a.Networks))
	return a, nil
}

func (s *Store) read(name string) ([]byte, string, error) {
	file := name + ".json"
	if filepath.Base(file) != file {
		return nil, "", apperror.New(apperror.CodeArtifactNotFound,
			apperror.WithContext(name))
	}

	if s.dir != "" {
		path := filepath.Join(s.dir, file)
		raw, err := os.ReadFile(path)
		if err == nil {
			return raw, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", apperror.New(apperror.CodeArtifactNotFound,
				apperror.WithCause(err),
				apperror.WithContext(path))
		}
	}

	raw, err := embedded.ReadFile("artifacts/" + file)
	if err != nil {
		return nil, "", apperror.New(apperror.CodeArtifactNotFound,
			apperror.WithCause(err),
			apperror.WithContext(name))
	}
	return raw, "embedded", nil
}

func parse(name string, raw []byte) (*domain.ContractArtifact, error) {
	var f artifactFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, invalid(name, err)
	}

	iface := f.ABI
	if len(iface) == 0 || string(iface) == "null" {
		iface = f.Interface
	}
	if len(iface) == 0 || string(iface) == "null" {
		return nil, invalid(name, errors.New("missing abi"))
	}

	iface, err := withEntryTypes(iface)
	if err != nil {
		return nil, invalid(name, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(iface))
	if err != nil {
		return nil, invalid(name, err)
	}

	networks := make(map[wallet.NetworkID]domain.Deployment, len(f.Networks))
	for id, n := range f.Networks {
		if !common.IsHexAddress(n.Address) {
			return nil, invalid(name, errors.New("network "+id+": bad address "+n.Address))
		}
		networks[wallet.NetworkID(id)] = domain.Deployment{Address: common.HexToAddress(n.Address)}
	}

	contractName := f.ContractName
	if contractName == "" {
		contractName = name
	}

	return &domain.ContractArtifact{
		Name:     contractName,
		ABI:      parsed,
		Networks: networks,
	}, nil
}

func invalid(name string, cause error) error {
	return apperror.New(apperror.CodeInvalidArtifact,
		apperror.WithCause(cause),
		apperror.WithContext(name))
}

// withEntryTypes defaults the type of every interface entry to "function".
// Older artifacts list methods as {name, inputs, outputs, constant} only.
func withEntryTypes(iface json.RawMessage) (json.RawMessage, error) {
	var entries []map[string]any
	if err := json.Unmarshal(iface, &entries); err != nil {
		return nil, err
	}

	changed := false
	for _, e := range entries {
		if t, ok := e["type"].(string); !ok || t == "" {
			e["type"] = "function"
			changed = true
		}
	}
	if !changed {
		return iface, nil
	}
	return json.Marshal(entries)
}
