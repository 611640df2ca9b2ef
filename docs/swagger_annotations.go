package docs

// @tag.name users
// @tag.description Portfolio owners

// @tag.name portfolios
// @tag.description Portfolio management and dashboard summaries

// @tag.name investments
// @tag.description Holdings with derived valuation figures

// @tag.name performance
// @tag.description Append-only portfolio value history

// @tag.name prices
// @tag.description Daily closing prices used for daily change

// @tag.name health
// @tag.description Health check and monitoring endpoints
