package entities

// Token is a coin or fungible asset known to the aggregator.
// TypeTag is the canonical Move type identifier used in view calls and
// transaction type arguments.
type Token struct {
	Symbol      string `json:"symbol" yaml:"symbol"`
	TypeTag     string `json:"typeTag" yaml:"type_tag"`
	Name        string `json:"name" yaml:"name"`
	Decimals    uint8  `json:"decimals" yaml:"decimals"`
	LogoURI     string `json:"logoURI,omitempty" yaml:"logo_uri"`
	CoingeckoID string `json:"coingeckoId,omitempty" yaml:"coingecko_id"`
}

// APT is the native Aptos coin
var APT = Token{
	Symbol:      "APT",
	TypeTag:     "0x1::aptos_coin::AptosCoin",
	Name:        "Aptos Coin",
	Decimals:    8,
	CoingeckoID: "aptos",
}

// USDC is LayerZero bridged USD Coin on Aptos mainnet
var USDC = Token{
	Symbol:      "USDC",
	TypeTag:     "0xf22bede237a07e121b56d91a491eb7bcdfd1f5907926a9e58338f964a01b17fa::asset::USDC",
	Name:        "USD Coin",
	Decimals:    6,
	CoingeckoID: "usd-coin",
}

// USDT is LayerZero bridged Tether USD on Aptos mainnet
var USDT = Token{
	Symbol:      "USDT",
	TypeTag:     "0xf22bede237a07e121b56d91a491eb7bcdfd1f5907926a9e58338f964a01b17fa::asset::USDT",
	Name:        "Tether USD",
	Decimals:    6,
	CoingeckoID: "tether",
}

// WETH is LayerZero bridged Wrapped Ether on Aptos mainnet
var WETH = Token{
	Symbol:      "WETH",
	TypeTag:     "0xf22bede237a07e121b56d91a491eb7bcdfd1f5907926a9e58338f964a01b17fa::asset::WETH",
	Name:        "Wrapped Ether",
	Decimals:    6,
	CoingeckoID: "weth",
}

// CAKE is the PancakeSwap token bridged to Aptos
var CAKE = Token{
	Symbol:      "CAKE",
	TypeTag:     "0x159df6b7689437016108a019fd5bef736bac692b6d4a1f10c941f6fbb9a74ca6::oft::CakeOFT",
	Name:        "PancakeSwap Token",
	Decimals:    8,
	CoingeckoID: "pancakeswap-token",
}
