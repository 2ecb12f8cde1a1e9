// Package docs holds the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/reports/sales": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Sales report",
                "description": "Summary, time series, product breakdown and payment/delivery splits over every order, paid or not",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "X-Bakery-ID",
                        "in": "header",
                        "required": true,
                        "description": "Bakery ID"
                    },
                    {
                        "type": "string",
                        "name": "period",
                        "in": "query",
                        "description": "Period bucket",
                        "enum": [
                            "daily",
                            "weekly",
                            "monthly"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "segment",
                        "in": "query",
                        "description": "Customer segment split",
                        "enum": [
                            "none",
                            "all",
                            "b2b",
                            "b2c"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "categories",
                        "in": "query",
                        "description": "Comma separated category IDs"
                    },
                    {
                        "type": "string",
                        "name": "date_field",
                        "in": "query",
                        "description": "Order date the range and periods use",
                        "enum": [
                            "dueDate",
                            "paymentDate",
                            "preparationDate"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "start_date",
                        "in": "query",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "type": "string",
                        "name": "end_date",
                        "in": "query",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid parameters",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/reports/sales/overview": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Sales overview with period comparison",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "X-Bakery-ID",
                        "in": "header",
                        "required": true,
                        "description": "Bakery ID"
                    },
                    {
                        "type": "string",
                        "name": "period",
                        "in": "query",
                        "description": "Period bucket",
                        "enum": [
                            "daily",
                            "weekly",
                            "monthly"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "date_field",
                        "in": "query",
                        "description": "Order date the range and periods use",
                        "enum": [
                            "dueDate",
                            "paymentDate",
                            "preparationDate"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "start_date",
                        "in": "query",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "type": "string",
                        "name": "end_date",
                        "in": "query",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid parameters",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/reports/products": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Product sales report",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "X-Bakery-ID",
                        "in": "header",
                        "required": true,
                        "description": "Bakery ID"
                    },
                    {
                        "type": "string",
                        "name": "period",
                        "in": "query",
                        "description": "Period bucket",
                        "enum": [
                            "daily",
                            "weekly",
                            "monthly"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "metrics",
                        "in": "query",
                        "description": "Per-product figures to include",
                        "enum": [
                            "ingresos",
                            "cantidad",
                            "both"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "segment",
                        "in": "query",
                        "description": "Customer segment split",
                        "enum": [
                            "none",
                            "all",
                            "b2b",
                            "b2c"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "categories",
                        "in": "query",
                        "description": "Comma separated category IDs"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid parameters",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/reports/income-statement": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Income statement",
                "description": "Revenue, cost of goods sold, gross profit and margin over paid orders, in total or per month",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "X-Bakery-ID",
                        "in": "header",
                        "required": true,
                        "description": "Bakery ID"
                    },
                    {
                        "type": "string",
                        "name": "group_by",
                        "in": "query",
                        "description": "Income statement grouping",
                        "enum": [
                            "total",
                            "month"
                        ]
                    },
                    {
                        "type": "string",
                        "name": "start_date",
                        "in": "query",
                        "description": "Start date (YYYY-MM-DD)"
                    },
                    {
                        "type": "string",
                        "name": "end_date",
                        "in": "query",
                        "description": "End date (YYYY-MM-DD), inclusive"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid parameters",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/reports/bundle": {
            "get": {
                "tags": [
                    "reports"
                ],
                "summary": "Sales, product and income reports in one response",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "X-Bakery-ID",
                        "in": "header",
                        "required": true,
                        "description": "Bakery ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid parameters",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/settings/reports": {
            "get": {
                "tags": [
                    "settings"
                ],
                "summary": "Get report settings",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "X-Bakery-ID",
                        "in": "header",
                        "required": true,
                        "description": "Bakery ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid parameters",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "settings"
                ],
                "summary": "Update report settings",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "X-Bakery-ID",
                        "in": "header",
                        "required": true,
                        "description": "Bakery ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UpdateReportSettingsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Updated settings",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "400": {
                        "description": "Invalid parameters",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "429": {
                        "description": "Rate limit exceeded",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/system/info": {
            "get": {
                "tags": [
                    "system"
                ],
                "summary": "Service name and version",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        },
        "/system/ping": {
            "get": {
                "tags": [
                    "system"
                ],
                "summary": "Liveness ping",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.Response"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.Response": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "data": {},
                "error": {
                    "$ref": "#/definitions/dto.ErrorInfo"
                },
                "meta": {
                    "type": "object"
                }
            }
        },
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string",
                    "example": "ERR_VALIDATION"
                },
                "message": {
                    "type": "string"
                },
                "request_id": {
                    "type": "string"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "type": "object"
                    }
                }
            }
        },
        "dto.UpdateReportSettingsRequest": {
            "type": "object",
            "required": [
                "defaultDateField"
            ],
            "properties": {
                "defaultDateField": {
                    "type": "string",
                    "enum": [
                        "",
                        "dueDate",
                        "paymentDate",
                        "preparationDate"
                    ]
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Bakery Reporting API",
	Description:      "Sales, product and income reports computed from bakery orders",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
