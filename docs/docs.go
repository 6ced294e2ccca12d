// Package docs holds the OpenAPI description served at /swagger/.
// Regenerate with: swag init -g cmd/walletd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/wallet/connect": {
			"post": {
				"tags": [
					"wallet"
				],
				"summary": "Connect wallet",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.ConnectResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				}
			}
		},
		"/wallet/disconnect": {
			"post": {
				"tags": [
					"wallet"
				],
				"summary": "Disconnect wallet",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.ConnectResponse"
						}
					}
				}
			}
		},
		"/wallet/status": {
			"get": {
				"tags": [
					"wallet"
				],
				"summary": "Connection status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.ConnectResponse"
						}
					}
				}
			}
		},
		"/wallet/generate": {
			"post": {
				"tags": [
					"wallet"
				],
				"summary": "Generate new wallet",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.GenerateResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				}
			}
		},
		"/wallet/balances": {
			"get": {
				"tags": [
					"wallet"
				],
				"summary": "Get balances",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.BalanceResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "boolean",
						"description": "Value balances in USDC",
						"name": "withPrices",
						"in": "query"
					}
				]
			}
		},
		"/wallet/balances/refresh": {
			"post": {
				"tags": [
					"wallet"
				],
				"summary": "Refresh balances",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.BalanceResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				}
			}
		},
		"/wallet/transfer": {
			"post": {
				"tags": [
					"wallet"
				],
				"summary": "Send asset",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.PayResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"422": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"description": "Transfer data",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.PayRequest"
						}
					}
				]
			}
		},
		"/wallet/transactions": {
			"get": {
				"tags": [
					"wallet"
				],
				"summary": "Get transfer history",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.LogResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "transfer or swap",
						"name": "kind",
						"in": "query"
					},
					{
						"type": "string",
						"description": "pending, confirmed or failed",
						"name": "status",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Asset symbol",
						"name": "symbol",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Transaction signature",
						"name": "signature",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Start date (YYYY-MM-DD)",
						"name": "from",
						"in": "query"
					},
					{
						"type": "string",
						"description": "End date (YYYY-MM-DD)",
						"name": "to",
						"in": "query"
					},
					{
						"type": "number",
						"description": "Minimum amount",
						"name": "minAmount",
						"in": "query"
					},
					{
						"type": "number",
						"description": "Maximum amount",
						"name": "maxAmount",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "Maximum number of records",
						"name": "limit",
						"in": "query"
					}
				]
			}
		},
		"/notifications": {
			"get": {
				"tags": [
					"wallet"
				],
				"summary": "Recent notifications",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/swap/quote": {
			"get": {
				"tags": [
					"swap"
				],
				"summary": "Get swap quote",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.QuoteResult"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Input asset symbol",
						"name": "from",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "Output asset symbol",
						"name": "to",
						"in": "query",
						"required": true
					},
					{
						"type": "string",
						"description": "Input amount",
						"name": "amount",
						"in": "query",
						"required": true
					},
					{
						"type": "integer",
						"description": "Slippage tolerance in basis points",
						"name": "slippageBps",
						"in": "query"
					}
				]
			}
		},
		"/swap/execute": {
			"post": {
				"tags": [
					"swap"
				],
				"summary": "Execute swap",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.SwapResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"422": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					},
					"502": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"description": "Swap data",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.SwapRequest"
						}
					}
				]
			}
		},
		"/swap/settings": {
			"get": {
				"tags": [
					"swap"
				],
				"summary": "Slippage settings",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.SwapSettings"
						}
					}
				}
			},
			"put": {
				"tags": [
					"swap"
				],
				"summary": "Replace slippage settings",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.SwapSettings"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/model.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"description": "New settings",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.SwapSettings"
						}
					}
				]
			}
		},
		"/swap/draft": {
			"get": {
				"tags": [
					"swap"
				],
				"summary": "Latest live quote",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.QuoteDraft"
						}
					}
				}
			},
			"post": {
				"tags": [
					"swap"
				],
				"summary": "Replace swap form input",
				"produces": [
					"application/json"
				],
				"responses": {
					"202": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.QuoteDraft"
						}
					}
				},
				"parameters": [
					{
						"description": "Form input",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/model.QuoteDraftRequest"
						}
					}
				]
			}
		}
	},
	"definitions": {
		"model.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"code": {
					"type": "string"
				}
			}
		},
		"model.ConnectResponse": {
			"type": "object",
			"properties": {
				"connected": {
					"type": "boolean"
				},
				"address": {
					"type": "string"
				},
				"network": {
					"type": "string"
				}
			}
		},
		"model.GenerateResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				},
				"address": {
					"type": "string"
				},
				"network": {
					"type": "string"
				}
			}
		},
		"model.BalanceResponse": {
			"type": "object",
			"properties": {
				"address": {
					"type": "string"
				},
				"network": {
					"type": "string"
				},
				"connected": {
					"type": "boolean"
				},
				"loading": {
					"type": "boolean"
				},
				"error": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				},
				"balances": {
					"type": "array",
					"items": {
						"type": "object"
					}
				},
				"totalUsdc": {
					"type": "number"
				}
			}
		},
		"model.PayRequest": {
			"type": "object",
			"properties": {
				"symbol": {
					"type": "string"
				},
				"toAddress": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"model.PayResponse": {
			"type": "object",
			"properties": {
				"txId": {
					"type": "string"
				},
				"record": {
					"type": "object"
				}
			}
		},
		"model.LogResponse": {
			"type": "object",
			"properties": {
				"address": {
					"type": "string"
				},
				"total": {
					"type": "integer"
				},
				"transactions": {
					"type": "array",
					"items": {
						"type": "object"
					}
				}
			}
		},
		"model.QuoteResult": {
			"type": "object",
			"properties": {
				"quote": {
					"type": "object"
				},
				"inputSymbol": {
					"type": "string"
				},
				"outputSymbol": {
					"type": "string"
				},
				"inputAmount": {
					"type": "number"
				},
				"outputAmount": {
					"type": "number"
				},
				"minimumReceived": {
					"type": "number"
				},
				"priceImpact": {
					"type": "string"
				},
				"recommendedSlippageBps": {
					"type": "integer"
				},
				"slippageBps": {
					"type": "integer"
				},
				"fetchedAt": {
					"type": "string"
				}
			}
		},
		"model.SwapRequest": {
			"type": "object",
			"properties": {
				"from": {
					"type": "string"
				},
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"slippageBps": {
					"type": "integer"
				}
			}
		},
		"model.SwapResponse": {
			"type": "object",
			"properties": {
				"txId": {
					"type": "string"
				},
				"quote": {
					"type": "object"
				},
				"record": {
					"type": "object"
				}
			}
		},
		"model.SwapSettings": {
			"type": "object",
			"properties": {
				"slippageBps": {
					"type": "integer"
				},
				"autoSlippage": {
					"type": "boolean"
				}
			}
		},
		"model.QuoteDraftRequest": {
			"type": "object",
			"properties": {
				"from": {
					"type": "string"
				},
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				},
				"slippageBps": {
					"type": "integer"
				}
			}
		},
		"model.QuoteDraft": {
			"type": "object",
			"properties": {
				"from": {
					"type": "string"
				},
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "number"
				},
				"slippageBps": {
					"type": "integer"
				},
				"pending": {
					"type": "boolean"
				},
				"result": {
					"type": "object"
				},
				"error": {
					"type": "string"
				},
				"code": {
					"type": "string"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Goldium Wallet API",
	Description:      "Local non-custodial wallet daemon: balances, transfers and swaps for allow-listed Solana assets.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
