package doctype

// Instruction prompts sent to the vision model, one per document type. The
// model is told to answer with a bare JSON object; the repair and
// normalization layers take care of the rest.

const promptLiquidado = `Eres un extractor experto de documentos SUNARP (Perú).
Analiza la imagen de una ESQUELA DE LIQUIDACIÓN y devuelve SOLO JSON.

Reglas:
- NUNCA incluyas texto fuera del JSON.
- Si un dato no está visible, devuelve null (no inventes).
- Montos como string con 2 decimales (ej: "340.90").
- Fechas dd/MM/yyyy y hora HH:mm:ss.

Esquema objetivo:
{
  "documentType": "esquela_liquidacion",
  "data": {
    "anioTitulo": string|null,
    "numeroTitulo": string|null,
    "oficinaRegistral": string|null,
    "seccionRegistral": string|null,
    "fechaPresentacion": string|null,
    "horaPresentacion": string|null,
    "fechaVencimiento": string|null,
    "fechaLiquidacion": string|null,
    "ultimoDiaPago": string|null,
    "derechosRegistrales": string|null,
    "pagoCuenta": string|null,
    "diferenciaPorPagar": string|null,
    "nombreRegistrador": string|null
  }
}

Pistas de extracción:
- "TÍTULO : aaaa - nnnnnnnn" => anioTitulo, numeroTitulo.
- "Oficina Registral", "Sección registral".
- "Fecha de presentación :" contiene fecha y hora.
- "Diferencia por Pagar" está en un recuadro al final.
- "Pago a cuenta Rec. N° …" muestra el monto a la derecha.
- El total de derechos es la suma principal del cuadro de importes.
`

const promptInscrito = `Eres un extractor experto de documentos SUNARP (Perú).
Analiza la imagen de una ANOTACIÓN DE INSCRIPCIÓN y devuelve SOLO JSON (sin texto adicional).

Reglas:
- No inventes datos: si un valor no está visible → null.
- Montos como string con 2 decimales. Ej: "320.00".
- Fechas en formato dd/MM/yyyy.
- No calcules montos, solo extrae lo impreso.

Esquema esperado:
{
  "documentType": "anotacion_inscripcion",
  "data": {
    "anioTitulo": string|null,
    "numeroTitulo": string|null,
    "oficinaRegistral": string|null,
    "seccionRegistral": string|null,
    "numeroPartida": string|null,
    "fechaPresentacion": string|null,
    "montoInscripcion": string|null,
    "montoDevolucion": string|null,
    "fechaInscripcion": string|null,
    "nombreRegistrador": string|null
  }
}

Pistas:
- "TITULO N° : aaaa-nnnnnnn" → año y número de título.
- "OFICINA REGISTRAL ..." arriba.
- "PARTIDA N° xxxxxxxx" en el bloque del ACTO.
- "Fecha de Presentación : dd/mm/aaaa" junto al título.
- "Derechos pagados : S/ xxx.xx" => montoInscripcion.
- "Derechos por devolver : S/ xx.xx" => montoDevolucion.
- La fecha final aparece como "CIUDAD, 24 de Octubre de 2025." (convierte a dd/MM/yyyy).
- El nombre del Registrador está en la firma inferior.
`

const promptObservado = `Eres un extractor experto de documentos SUNARP (Perú).
Analiza la imagen de una ESQUELA DE OBSERVACIÓN y devuelve SOLO JSON (sin texto adicional).

Reglas:
- No inventes datos: si un valor no está visible → null.
- Montos como string con 2 decimales. Ej: "8.90".
- Fechas en formato dd/MM/yyyy.
- No calcules montos, solo extrae lo impreso.

Esquema esperado:
{
  "documentType": "esquela_observacion",
  "data": {
    "fechaObservacion": string|null,
    "fechaVencimiento": string|null,
    "montoLiquidado": string|null
  }
}

Pistas:
- "Subsanar y pagar mayor derecho hasta el:" → fechaObservacion.
- "Fecha de vencimiento:" → fechaVencimiento.
- "Derechos pendientes de pago" o "Monto liquidado" → montoLiquidado (ej. "S/ 8.90").
`

const promptTachado = `Eres un extractor experto de documentos SUNARP (Perú).
Analiza una ESQUELA DE Tacha (tacha especial / tacha por caducidad) y devuelve SOLO JSON.

Reglas:
- NUNCA incluyas texto fuera del JSON.
- Si un dato no está visible, usa null (no inventes).
- Formato objetivo: numero de título como string tal cual aparece (aaaa-nnnnnnnn).
- 'Derechos por devolver' como monto string con 2 decimales (ej: "37.20").

Esquema objetivo:
{
  "documentType": "tacha",
  "data": {
    "numeroTitulo": string|null,
    "derechosPorDevolver": string|null
  }
}

Pistas de extracción:
- Encabezado suele decir: "TACHA ...", "TACHA POR CADUCIDAD...", etc.
- Número de título aparece como: "Número de título : aaaa-nnnnnnnn".
- Monto devolver aparece como: "Derechos por devolver : S/ xx.xx".
- Ignora otros montos (pagados, cobrados). SOLAMENTE 'Derechos por devolver'.
`
