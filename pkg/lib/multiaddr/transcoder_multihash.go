package multiaddr

import (
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58"
	"github.com/multiformats/go-multicodec"
	mh "github.com/multiformats/go-multihash"

	"github.com/dep2p/go-multiformat/internal/basen"
)

// ============================================================================
//                              P2P
// ============================================================================

// TranscoderP2P 节点标识，字节为 multihash
//
// 文本形式接受两种写法：
//   - 旧式 base58 multihash（以 "Qm" 或 "1" 开头）
//   - CID，其编解码器必须是 libp2p-key
//
// 输出统一为 base58。
var TranscoderP2P = NewTranscoderFromFunctions(p2pStringToBytes, p2pBytesToString, p2pValidateBytes)

func p2pStringToBytes(s string) ([]byte, error) {
	if strings.HasPrefix(s, "Qm") || strings.HasPrefix(s, "1") {
		b, err := base58.Decode(s)
		if err != nil {
			return nil, invalidValue("failed to parse p2p address %s: %v", s, err)
		}
		if err := p2pValidateBytes(b); err != nil {
			return nil, err
		}
		return b, nil
	}

	c, err := cid.Decode(s)
	if err != nil {
		return nil, invalidValue("failed to parse p2p address %s: %v", s, err)
	}
	if c.Type() != cid.Libp2pKey {
		return nil, invalidValue("failed to parse p2p address: %s has an invalid codec %s", s, multicodec.Code(c.Type()))
	}
	return c.Hash(), nil
}

func p2pBytesToString(b []byte) (string, error) {
	return base58.Encode(b), nil
}

func p2pValidateBytes(b []byte) error {
	if _, err := mh.Cast(b); err != nil {
		return invalidValue("invalid p2p multihash: %v", err)
	}
	return nil
}

// ============================================================================
//                              CertHash
// ============================================================================

// TranscoderCertHash 证书哈希，字节为 multihash
//
// 文本形式为任意 multibase 编码，输出统一为 base64url（前缀 'u'）。
var TranscoderCertHash = NewTranscoderFromFunctions(certHashStringToBytes, certHashBytesToString, certHashValidateBytes)

func certHashStringToBytes(s string) ([]byte, error) {
	_, b, err := basen.DecodeMultibase(s)
	if err != nil {
		return nil, invalidValue("failed to parse certhash %s: %v", s, err)
	}
	if err := certHashValidateBytes(b); err != nil {
		return nil, err
	}
	return b, nil
}

func certHashBytesToString(b []byte) (string, error) {
	return basen.EncodeMultibase(basen.Base64URL, b)
}

func certHashValidateBytes(b []byte) error {
	if _, err := mh.Cast(b); err != nil {
		return invalidValue("invalid certhash multihash: %v", err)
	}
	return nil
}
