package mysql

const upsertItemSQL = `
INSERT INTO catalog_items
  (kind, category, id, position, names, descriptions, prices, features, badge, badge_color, warranty, image, icon, gps_tracking)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  position     = VALUES(position),
  names        = VALUES(names),
  descriptions = VALUES(descriptions),
  prices       = VALUES(prices),
  features     = VALUES(features),
  badge        = VALUES(badge),
  badge_color  = VALUES(badge_color),
  warranty     = VALUES(warranty),
  image        = VALUES(image),
  icon         = VALUES(icon),
  gps_tracking = VALUES(gps_tracking),
  updated_at   = CURRENT_TIMESTAMP
`

const loadCatalogSQL = `
SELECT
  kind,
  category,
  id,
  names,
  descriptions,
  prices,
  features,
  badge,
  badge_color,
  warranty,
  image,
  icon,
  gps_tracking
FROM catalog_items
ORDER BY kind, category, position, id
`

const countItemsSQL = `SELECT COUNT(*) FROM catalog_items WHERE kind = ?`
